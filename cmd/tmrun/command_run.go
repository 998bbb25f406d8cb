package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattst/tmrun/pkg/lib"
	"github.com/mattst/tmrun/pkg/lib/runner"
)

// Exit statuses follow the timeout(1) convention.
const (
	exitTimedOut      = 124
	exitRunnerFailure = 125
	exitLaunchFailure = 127
)

// exitError carries a process exit status out of cobra's RunE.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func newRunCmd() *cobra.Command {
	var (
		flagTimeout string
		flagPoll    string
		flagGrace   string
		flagQuiet   bool
		flagVerbose bool
		flagConfig  string
	)

	cmd := &cobra.Command{
		Use:   "run [flags] -- <command> [args...]",
		Short: "Run a command, terminating it if the deadline elapses",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("command to execute is required; use -- to separate CLI flags from the command")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := defaultRunConfig()
			if flagConfig != "" {
				var err error
				cfg, err = loadRunConfig(flagConfig)
				if err != nil {
					return err
				}
			}

			// Flags override config file values.
			if cmd.Flags().Changed("timeout") {
				d, err := parseInterval(flagTimeout)
				if err != nil {
					return fmt.Errorf("parse --timeout: %w", err)
				}
				cfg.Timeout = d
			}
			if cmd.Flags().Changed("poll-interval") {
				d, err := parseInterval(flagPoll)
				if err != nil {
					return fmt.Errorf("parse --poll-interval: %w", err)
				}
				cfg.PollInterval = d
			}
			if cmd.Flags().Changed("grace") {
				d, err := parseInterval(flagGrace)
				if err != nil {
					return fmt.Errorf("parse --grace: %w", err)
				}
				cfg.GracePeriod = d
			}
			if cmd.Flags().Changed("quiet") {
				cfg.Quiet = flagQuiet
			}

			if cfg.Timeout <= 0 {
				return errors.New("a positive --timeout is required (flag or config file)")
			}

			r, err := runner.NewRunner(newLogger(cfg.Quiet, flagVerbose))
			if err != nil {
				return err
			}

			command := lib.Command{
				Command: args[0],
				Args:    args[1:],
				Stdout:  os.Stdout,
				Stderr:  os.Stderr,
			}
			res, err := r.Run(command, runner.Config{
				Deadline:     cfg.Timeout,
				PollInterval: cfg.PollInterval,
				GracePeriod:  cfg.GracePeriod,
			})
			if err != nil {
				var launchErr *lib.LaunchError
				if errors.As(err, &launchErr) {
					return &exitError{code: exitLaunchFailure, msg: "tmrun: " + err.Error()}
				}
				var sigErr *lib.SignalError
				if errors.As(err, &sigErr) {
					// The deadline was still exceeded; report the
					// delivery failure but keep the timeout status.
					return &exitError{code: exitTimedOut, msg: "tmrun: " + err.Error()}
				}
				return err
			}

			if code := exitStatus(res); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&flagTimeout, "timeout", "t", "", "deadline; a duration (\"1.5s\") or bare fractional seconds (\"1.5\")")
	cmd.Flags().StringVarP(&flagPoll, "poll-interval", "p", "", "time between liveness checks; 0 polls as fast as possible")
	cmd.Flags().StringVarP(&flagGrace, "grace", "g", "", "bounded wait after SIGTERM before the process group is killed; 0 disables")
	cmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress progress output")
	cmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every liveness check")
	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "TOML file with default timeout, poll_interval, grace_period and quiet")

	return cmd
}

// exitStatus maps a run result to the process exit status: the child's
// own exit code when it completed, 124 when it timed out.
func exitStatus(res *lib.Result) int {
	switch res.Outcome {
	case lib.OutcomeTimedOut:
		return exitTimedOut
	case lib.OutcomeCompleted:
		if res.ExitCode != nil && *res.ExitCode >= 0 {
			return *res.ExitCode
		}
		return 0
	default:
		return exitRunnerFailure
	}
}
