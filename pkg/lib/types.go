package lib

import (
	"io"
	"time"
)

// Outcome classifies how a run ended.
// It's intentionally minimal; failures are reported as errors, not outcomes.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	// OutcomeCompleted means the process exited before the deadline.
	OutcomeCompleted
	// OutcomeTimedOut means the deadline elapsed and a termination
	// signal was sent. It does not imply the process has exited.
	OutcomeTimedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed-out"
	default:
		return "unspecified"
	}
}

// Command captures one external program invocation.
type Command struct {
	Command string
	Args    []string

	// Stdout and Stderr receive the child's output. Nil discards.
	Stdout io.Writer
	Stderr io.Writer

	// Dir is the working directory for the child. Empty means a
	// per-run scratch directory.
	Dir string
}

// Result captures how one run ended and how long it took.
type Result struct {
	Outcome   Outcome
	TimeTaken time.Duration
	// Checks is the number of liveness queries performed.
	Checks int
	PID    int
	// ExitCode is set only if the child's exit status was observed
	// before Run returned. It is always nil on a fire-and-forget
	// timeout (no grace period).
	ExitCode *int
}
