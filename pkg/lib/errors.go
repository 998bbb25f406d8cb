package lib

import "fmt"

// LaunchError reports that the command could not be started. It is
// fatal and returned before any polling begins.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// SignalError reports that the termination signal could not be
// delivered after the deadline elapsed. It is not retried; a second
// attempt without escalation offers no new guarantee. The accompanying
// Result is still valid and carries OutcomeTimedOut.
type SignalError struct {
	PID int
	Err error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("signal pid %d: %v", e.PID, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }

// ConfigError reports an invalid run configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
