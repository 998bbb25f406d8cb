package runner

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/mattst/tmrun/pkg/lib"
)

// Run starts command as a detached child process and enforces
// cfg.Deadline on it. The child's liveness is polled every
// cfg.PollInterval; once the elapsed time exceeds the deadline the
// whole process group receives SIGTERM. With cfg.GracePeriod zero the
// signal is fire-and-forget and the returned result does not imply the
// child has exited.
//
// A *lib.SignalError is returned together with a valid timed-out
// result; every other error means no result.
func (runner *Runner) Run(command lib.Command, cfg Config) (*lib.Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if command.Command == "" {
		return nil, &lib.LaunchError{Command: command.Command, Err: errors.New("command is required")}
	}

	runId := lib.NewID()
	log := runner.log.With().Str("run", runId).Logger()

	workDir := command.Dir
	if workDir == "" {
		workDir = filepath.Join(runner.baseDir, runId)
		if err := os.MkdirAll(workDir, 0o700); err != nil {
			return nil, err
		}
		// Note that this folder is not removed
	}

	cmd := exec.Command(command.Command, command.Args...)
	cmd.Dir = workDir
	// New process group: detaches the child from the caller's job
	// control and makes group signals reach its descendants too.
	cmd.SysProcAttr = sysProcAttr()
	// cmd.Stdin is left nil, so it will use /dev/null
	cmd.Stdout = command.Stdout
	cmd.Stderr = command.Stderr

	start := time.Now()
	log.Info().Str("command", command.Command).Strs("args", command.Args).Msg("starting process")
	if err := cmd.Start(); err != nil {
		log.Info().Err(err).Msg("failed to start process")
		return nil, &lib.LaunchError{Command: command.Command, Err: err}
	}

	pid := cmd.Process.Pid
	res := &lib.Result{PID: pid}

	// Reaper: without a Wait the child would linger in the process
	// table as a zombie and never fail the liveness query.
	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	for {
		if cfg.PollInterval > 0 {
			log.Debug().Dur("interval", cfg.PollInterval).Msg("sleeping before next check")
			time.Sleep(cfg.PollInterval)
		}
		res.Checks++

		alive, err := pidAlive(pid)
		if err != nil {
			// Transient by policy: retry on the next tick rather than
			// mistake a failed query for completion.
			log.Debug().Err(err).Int("check", res.Checks).Msg("liveness query failed")
			continue
		}
		if !alive {
			res.Outcome = lib.OutcomeCompleted
			break
		}

		elapsed := time.Since(start)
		if deadlineExceeded(elapsed, cfg.Deadline) {
			res.Outcome = lib.OutcomeTimedOut
			break
		}
		log.Debug().Int("check", res.Checks).Dur("elapsed", elapsed).Msg("still running")
	}

	var runErr error
	switch res.Outcome {
	case lib.OutcomeCompleted:
		// The liveness query only fails once the reaper has collected
		// the child, so this receive is imminent.
		res.ExitCode = exitCode(<-done)
	case lib.OutcomeTimedOut:
		log.Info().Int("pid", pid).Dur("deadline", cfg.Deadline).Msg("deadline exceeded, sending SIGTERM to process group")
		if err := terminateGroup(pid); err != nil {
			runErr = &lib.SignalError{PID: pid, Err: err}
		} else if cfg.GracePeriod > 0 {
			awaitExit(log, pid, done, cfg.GracePeriod, res)
		}
	}

	res.TimeTaken = time.Since(start)
	log.Info().Stringer("outcome", res.Outcome).Dur("time_taken", res.TimeTaken).Int("checks", res.Checks).Msg("run finished")

	return res, runErr
}

// awaitExit waits up to grace for the child to exit after SIGTERM and
// escalates to SIGKILL on the whole group if it is still alive.
func awaitExit(log zerolog.Logger, pid int, done <-chan error, grace time.Duration, res *lib.Result) {
	select {
	case err := <-done:
		res.ExitCode = exitCode(err)
		return
	case <-time.After(grace):
	}

	log.Info().Int("pid", pid).Dur("grace", grace).Msg("still alive after grace period, killing process group")
	_ = killGroup(pid)

	select {
	case err := <-done:
		res.ExitCode = exitCode(err)
	case <-time.After(time.Second):
		log.Info().Int("pid", pid).Msg("process did not exit after kill")
	}
}

// deadlineExceeded is strictly greater-than: a run that lands exactly
// on the deadline is not a timeout.
func deadlineExceeded(elapsed, deadline time.Duration) bool {
	return elapsed > deadline
}

func exitCode(err error) *int {
	if err == nil {
		code := 0
		return &code
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		return &code
	}
	// Non-exit error, leave exit code unset
	return nil
}
