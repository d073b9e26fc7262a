package tasks

import "errors"

var (
	// ErrTaskRepositoryRequired is returned when a task repository is not provided.
	ErrTaskRepositoryRequired = errors.New("task repository required")

	// ErrCursorRepositoryRequired is returned when a cursor repository is not provided.
	ErrCursorRepositoryRequired = errors.New("cursor repository required")

	// ErrTaskRequired is returned when a nil task is passed to a lifecycle method.
	ErrTaskRequired = errors.New("task required")

	// ErrRunnerClosed is returned when submitting to a closed runner.
	ErrRunnerClosed = errors.New("runner closed")

	// ErrJobRequired is returned when a nil job is submitted.
	ErrJobRequired = errors.New("job required")
)
