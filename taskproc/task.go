package taskproc

import (
	"context"
	"time"
)

// Priority selects which queue a task lands on. Each priority has its
// own FIFO queue and dedicated consumer, so critical work is never
// queued behind low-priority work.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityCritical
)

// String returns the string representation of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// priorities lists all levels in dispatch order.
var priorities = []Priority{PriorityLow, PriorityNormal, PriorityHigh, PriorityCritical}

// Status is the lifecycle state of a task.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// terminal reports whether the status is final.
func (s Status) terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Kind declares, at submission time, how a task's work behaves. The
// caller states it explicitly; the processor never inspects the
// callable.
type Kind int

const (
	// KindInline is cheap, non-blocking work run directly on the
	// queue's consumer goroutine.
	KindInline Kind = iota
	// KindIO is blocking I/O-bound work, admitted through the bounded
	// I/O pool.
	KindIO
	// KindCPU is CPU-bound work, admitted through the bounded CPU pool.
	KindCPU
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindIO:
		return "io"
	case KindCPU:
		return "cpu"
	default:
		return "unknown"
	}
}

// Func is the unit of work a task executes. The context is cancelled
// when the processor stops; cancellation is cooperative and in-flight
// work always runs to completion.
type Func func(ctx context.Context) (any, error)

// task is the processor-owned record of one unit of work. All fields
// are guarded by the processor mutex; nothing outside the processor
// mutates them.
type task struct {
	id       string
	fn       Func
	kind     Kind
	priority Priority

	status      Status
	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
	result      any
	err         error
	retryCount  int
	maxRetries  int
}

// TaskView is a read-only snapshot of a task, returned to pollers.
type TaskView struct {
	ID          string
	Priority    Priority
	Kind        Kind
	Status      Status
	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	Result      any
	Err         error
	RetryCount  int
	MaxRetries  int
}

func (t *task) view() TaskView {
	return TaskView{
		ID:          t.id,
		Priority:    t.priority,
		Kind:        t.kind,
		Status:      t.status,
		CreatedAt:   t.createdAt,
		StartedAt:   t.startedAt,
		CompletedAt: t.completedAt,
		Result:      t.result,
		Err:         t.err,
		RetryCount:  t.retryCount,
		MaxRetries:  t.maxRetries,
	}
}
