package runner

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/mattst/tmrun/pkg/lib"
)

// Runner enforces wall-clock deadlines on external commands.
type Runner struct {
	baseDir string
	log     zerolog.Logger
}

// Config controls a single run.
type Config struct {
	// Deadline is the maximum wall-clock duration the command may run.
	// Must be positive. Elapsed time strictly greater than the deadline
	// triggers a timeout; exact equality does not.
	Deadline time.Duration

	// PollInterval is the time slept between liveness checks. Zero
	// means no sleep between checks.
	PollInterval time.Duration

	// GracePeriod bounds the wait for exit after the termination
	// signal; a child still alive afterwards gets its whole process
	// group killed. Zero sends the signal and returns without waiting.
	GracePeriod time.Duration
}

func (c Config) validate() error {
	if c.Deadline <= 0 {
		return &lib.ConfigError{Field: "deadline", Err: errors.New("must be positive")}
	}
	if c.PollInterval < 0 {
		return &lib.ConfigError{Field: "poll interval", Err: errors.New("must not be negative")}
	}
	if c.GracePeriod < 0 {
		return &lib.ConfigError{Field: "grace period", Err: errors.New("must not be negative")}
	}
	return nil
}

// NewRunner creates a new Runner. Pass zerolog.Nop() to silence it.
func NewRunner(log zerolog.Logger) (*Runner, error) {
	baseDir, err := os.MkdirTemp("", "tmrun-*")
	if err != nil {
		return nil, err
	}

	return &Runner{baseDir: baseDir, log: log}, nil
}
