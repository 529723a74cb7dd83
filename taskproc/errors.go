package taskproc

import "errors"

// Sentinel errors for processor operations.
var (
	// ErrQueueFull is returned by Submit when the target priority queue
	// has no room.
	ErrQueueFull = errors.New("taskproc: priority queue is full")

	// ErrNotRunning is returned by Submit when the processor has not
	// been started or has been stopped.
	ErrNotRunning = errors.New("taskproc: processor is not running")

	// ErrAlreadyRunning is returned by Start when the processor is
	// already running.
	ErrAlreadyRunning = errors.New("taskproc: processor is already running")

	// ErrNilFunc is returned by Submit when the work function is nil.
	ErrNilFunc = errors.New("taskproc: task function is nil")

	// ErrInvalidPriority is returned by Submit when the priority does
	// not name one of the four queues.
	ErrInvalidPriority = errors.New("taskproc: invalid priority")
)
