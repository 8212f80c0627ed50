package focus

import "errors"

var (
	// ErrInvalidTask rejects a StartTask call with an empty name or non-positive duration.
	ErrInvalidTask = errors.New("invalid task")
	// ErrNoActiveTask is returned by commands that need a running or finished task.
	ErrNoActiveTask = errors.New("no active task")
	// ErrPersistence wraps store failures. The engine logs it and keeps going in memory.
	ErrPersistence = errors.New("persistence failure")
	// ErrAuthorizationDenied is returned by shields that are not allowed to enforce blocking.
	ErrAuthorizationDenied = errors.New("shield authorization denied")
	// ErrSchedulingFailure is returned by notifiers that could not schedule or deliver a notice.
	ErrSchedulingFailure = errors.New("notice scheduling failure")
)
