package taskproc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/akushsky/digestcore/observe"
)

// Config configures the processor.
type Config struct {
	// IOWorkers bounds concurrent KindIO work across all priorities.
	// Default: 10
	IOWorkers int

	// CPUWorkers bounds concurrent KindCPU work across all priorities.
	// Default: 4
	CPUWorkers int

	// QueueSize is the capacity of each priority queue.
	// Default: 256
	QueueSize int

	// RetryMaxDelay caps the retry backoff, min(2^retries, cap).
	// Default: 60 seconds
	RetryMaxDelay time.Duration

	// Logger receives processor lifecycle and task events.
	// Default: a no-op logger.
	Logger observe.Logger

	// Metrics records execution attempts and retries.
	// Default: a no-op recorder.
	Metrics observe.Metrics
}

// Processor runs background tasks from four priority queues, each
// drained by its own consumer goroutine. Blocking work is admitted
// through bounded pools shared across priorities. The processor
// exclusively owns all task state; callers interact through Submit,
// GetTask, Cancel and Stats. Task failures are recorded on the task,
// never propagated.
type Processor struct {
	config Config

	queues map[Priority]chan *task

	ioSem  *semaphore.Weighted
	cpuSem *semaphore.Weighted

	logger  observe.Logger
	metrics observe.Metrics

	mu             sync.Mutex
	active         map[string]*task
	completed      map[string]*task
	running        bool
	cancel         context.CancelFunc
	group          *errgroup.Group
	totalSubmitted int64
	totalCompleted int64
	totalFailed    int64
	avgProcessing  time.Duration
}

// NewProcessor creates a processor. Start must be called before tasks
// are accepted.
func NewProcessor(config Config) *Processor {
	// Apply defaults
	if config.IOWorkers <= 0 {
		config.IOWorkers = 10
	}
	if config.CPUWorkers <= 0 {
		config.CPUWorkers = 4
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 256
	}
	if config.RetryMaxDelay <= 0 {
		config.RetryMaxDelay = 60 * time.Second
	}
	if config.Logger == nil {
		config.Logger = observe.NopLogger()
	}
	if config.Metrics == nil {
		config.Metrics = observe.NopMetrics()
	}

	queues := make(map[Priority]chan *task, len(priorities))
	for _, pr := range priorities {
		queues[pr] = make(chan *task, config.QueueSize)
	}

	return &Processor{
		config:    config,
		queues:    queues,
		ioSem:     semaphore.NewWeighted(int64(config.IOWorkers)),
		cpuSem:    semaphore.NewWeighted(int64(config.CPUWorkers)),
		logger:    config.Logger.WithComponent("taskproc"),
		metrics:   config.Metrics,
		active:    make(map[string]*task),
		completed: make(map[string]*task),
	}
}

// SubmitOption customizes one submission.
type SubmitOption func(*task)

// WithPriority selects the priority queue. Default: PriorityNormal.
func WithPriority(p Priority) SubmitOption {
	return func(t *task) {
		t.priority = p
	}
}

// WithMaxRetries sets how many times a failing task is re-enqueued
// before it is marked failed. Default: 3.
func WithMaxRetries(n int) SubmitOption {
	return func(t *task) {
		t.maxRetries = n
	}
}

// WithKind declares how the work behaves so the processor can route it
// to the right pool. Default: KindInline.
func WithKind(k Kind) SubmitOption {
	return func(t *task) {
		t.kind = k
	}
}

// Submit enqueues work without blocking and returns the task ID for
// polling. It fails with ErrNotRunning before Start or after Stop, and
// with ErrQueueFull when the target priority queue has no room.
func (p *Processor) Submit(fn Func, opts ...SubmitOption) (string, error) {
	if fn == nil {
		return "", ErrNilFunc
	}

	t := &task{
		id:         uuid.NewString(),
		fn:         fn,
		kind:       KindInline,
		priority:   PriorityNormal,
		status:     StatusPending,
		createdAt:  time.Now(),
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.priority < PriorityLow || t.priority > PriorityCritical {
		return "", ErrInvalidPriority
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return "", ErrNotRunning
	}

	select {
	case p.queues[t.priority] <- t:
	default:
		return "", ErrQueueFull
	}

	p.active[t.id] = t
	p.totalSubmitted++

	p.logger.Debug(context.Background(), "task submitted",
		observe.Field{Key: "task_id", Value: t.id},
		observe.Field{Key: "priority", Value: t.priority.String()},
		observe.Field{Key: "kind", Value: t.kind.String()},
	)
	return t.id, nil
}

// Start launches the four queue consumers.
func (p *Processor) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.running = true

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	p.group = group
	p.mu.Unlock()

	for _, pr := range priorities {
		group.Go(func() error {
			p.consume(gctx, pr)
			return nil
		})
	}

	p.logger.Info(context.Background(), "processor started",
		observe.Field{Key: "io_workers", Value: p.config.IOWorkers},
		observe.Field{Key: "cpu_workers", Value: p.config.CPUWorkers},
		observe.Field{Key: "queue_size", Value: p.config.QueueSize},
	)
	return nil
}

// Stop cancels the consumers and waits for in-flight work to finish.
// Queued tasks that never ran keep their PENDING status; nothing is
// persisted across restarts.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel := p.cancel
	group := p.group
	p.mu.Unlock()

	p.logger.Info(context.Background(), "stopping processor")
	cancel()
	_ = group.Wait()
	p.logger.Info(context.Background(), "processor stopped")
}

// consume drains one priority queue. Cancellation stops the loop;
// whatever task is mid-execution runs to completion first.
func (p *Processor) consume(ctx context.Context, pr Priority) {
	p.logger.Debug(ctx, "queue consumer started",
		observe.Field{Key: "priority", Value: pr.String()})

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug(ctx, "queue consumer stopped",
				observe.Field{Key: "priority", Value: pr.String()})
			return
		case t := <-p.queues[pr]:
			p.runTask(ctx, t)
		}
	}
}

// runTask executes one dequeued task and settles its outcome.
func (p *Processor) runTask(ctx context.Context, t *task) {
	p.mu.Lock()
	if t.status.terminal() {
		// Cancelled while queued; drop it.
		p.mu.Unlock()
		return
	}
	t.status = StatusRunning
	t.startedAt = time.Now()
	p.mu.Unlock()

	meta := observe.TaskMeta{Queue: t.priority.String(), Kind: t.kind.String()}

	start := time.Now()
	var result any
	var err error
	switch t.kind {
	case KindIO:
		result, err = p.runPooled(ctx, p.ioSem, t)
	case KindCPU:
		result, err = p.runPooled(ctx, p.cpuSem, t)
	default:
		result, err = t.fn(ctx)
	}
	duration := time.Since(start)

	// Shutdown while waiting for a pool slot: the task never ran, put
	// it back to pending rather than counting a failure.
	if err != nil && errors.Is(err, context.Canceled) && ctx.Err() != nil {
		p.mu.Lock()
		if !t.status.terminal() {
			t.status = StatusPending
			t.startedAt = time.Time{}
		}
		p.mu.Unlock()
		return
	}

	p.metrics.RecordExecution(ctx, meta, duration, err)

	if err != nil {
		p.settleFailure(ctx, t, meta, err)
		return
	}
	p.settleSuccess(ctx, t, result, duration)
}

// runPooled admits blocking work through a bounded pool. The consumer
// awaits the work, so a hung callable occupies both the pool slot and
// this queue until it returns.
func (p *Processor) runPooled(ctx context.Context, sem *semaphore.Weighted, t *task) (any, error) {
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer sem.Release(1)

	return t.fn(ctx)
}

func (p *Processor) settleSuccess(ctx context.Context, t *task, result any, duration time.Duration) {
	p.mu.Lock()
	if t.status == StatusCancelled {
		// Cancelled mid-flight; the result is discarded.
		p.mu.Unlock()
		return
	}
	t.status = StatusCompleted
	t.result = result
	t.completedAt = time.Now()
	delete(p.active, t.id)
	p.completed[t.id] = t

	p.totalCompleted++
	n := p.totalCompleted
	p.avgProcessing = time.Duration((int64(p.avgProcessing)*(n-1) + int64(duration)) / n)
	p.mu.Unlock()

	p.logger.Debug(ctx, "task completed",
		observe.Field{Key: "task_id", Value: t.id},
		observe.Field{Key: "duration_ms", Value: float64(duration.Milliseconds())},
	)
}

// settleFailure applies the retry state machine: re-enqueue onto the
// same priority queue after a capped backoff while retries remain,
// otherwise record the error and mark the task failed.
func (p *Processor) settleFailure(ctx context.Context, t *task, meta observe.TaskMeta, taskErr error) {
	p.mu.Lock()
	if t.status == StatusCancelled {
		p.mu.Unlock()
		return
	}
	t.retryCount++
	retrying := t.retryCount <= t.maxRetries
	if retrying {
		t.status = StatusPending
		t.startedAt = time.Time{}
		t.err = nil
	} else {
		p.failLocked(t, taskErr)
	}
	retries, maxRetries := t.retryCount, t.maxRetries
	p.mu.Unlock()

	if !retrying {
		p.logger.Error(ctx, "task failed after retries exhausted",
			observe.Field{Key: "task_id", Value: t.id},
			observe.Field{Key: "retries", Value: retries},
			observe.Field{Key: "error", Value: taskErr.Error()},
		)
		return
	}

	p.metrics.RecordRetry(ctx, meta)
	p.logger.Warn(ctx, "task failed, retrying",
		observe.Field{Key: "task_id", Value: t.id},
		observe.Field{Key: "attempt", Value: fmt.Sprintf("%d/%d", retries, maxRetries)},
		observe.Field{Key: "error", Value: taskErr.Error()},
	)

	select {
	case <-ctx.Done():
		return
	case <-time.After(retryBackoff(retries, p.config.RetryMaxDelay)):
	}

	select {
	case p.queues[t.priority] <- t:
	default:
		// No room to re-enqueue; settle as failed rather than block
		// the consumer.
		p.mu.Lock()
		if !t.status.terminal() {
			p.failLocked(t, fmt.Errorf("re-enqueue: %w", ErrQueueFull))
		}
		p.mu.Unlock()
		p.logger.Error(ctx, "retry dropped, queue full",
			observe.Field{Key: "task_id", Value: t.id},
			observe.Field{Key: "priority", Value: t.priority.String()},
		)
	}
}

// failLocked marks a task failed and moves it to the completed set.
// Caller holds p.mu.
func (p *Processor) failLocked(t *task, err error) {
	t.status = StatusFailed
	t.err = err
	t.completedAt = time.Now()
	delete(p.active, t.id)
	p.completed[t.id] = t
	p.totalFailed++
}

// retryBackoff returns min(2^retries seconds, limit).
func retryBackoff(retries int, limit time.Duration) time.Duration {
	if retries > 30 {
		return limit
	}
	d := time.Duration(1<<uint(retries)) * time.Second
	if d > limit {
		return limit
	}
	return d
}

// GetTask returns a snapshot of a task by ID, checking active tasks
// first, then completed ones.
func (p *Processor) GetTask(id string) (TaskView, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.active[id]; ok {
		return t.view(), true
	}
	if t, ok := p.completed[id]; ok {
		return t.view(), true
	}
	return TaskView{}, false
}

// Cancel marks an active task cancelled and moves it to the completed
// set. It returns false for unknown or already-terminal tasks.
// Cancellation is cooperative: work already running in a pool finishes,
// but its outcome is discarded.
func (p *Processor) Cancel(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.active[id]
	if !ok {
		return false
	}

	t.status = StatusCancelled
	t.completedAt = time.Now()
	delete(p.active, id)
	p.completed[id] = t

	p.logger.Info(context.Background(), "task cancelled",
		observe.Field{Key: "task_id", Value: id})
	return true
}

// Stats is a read-only snapshot of processor state.
type Stats struct {
	QueueSizes        map[Priority]int
	ActiveCount       int
	CompletedCount    int
	TotalSubmitted    int64
	TotalCompleted    int64
	TotalFailed       int64
	AvgProcessingTime time.Duration
	Running           bool
}

// Stats returns current queue depths, task counts and the moving
// average processing time of completed tasks.
func (p *Processor) Stats() Stats {
	sizes := make(map[Priority]int, len(priorities))
	for _, pr := range priorities {
		sizes[pr] = len(p.queues[pr])
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		QueueSizes:        sizes,
		ActiveCount:       len(p.active),
		CompletedCount:    len(p.completed),
		TotalSubmitted:    p.totalSubmitted,
		TotalCompleted:    p.totalCompleted,
		TotalFailed:       p.totalFailed,
		AvgProcessingTime: p.avgProcessing,
		Running:           p.running,
	}
}

// ClearCompleted drops completed tasks older than maxAge and returns
// how many were removed. Task history is in-memory only; callers run
// this periodically to bound growth.
func (p *Processor) ClearCompleted(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	p.mu.Lock()
	removed := 0
	for id, t := range p.completed {
		if !t.completedAt.IsZero() && t.completedAt.Before(cutoff) {
			delete(p.completed, id)
			removed++
		}
	}
	p.mu.Unlock()

	if removed > 0 {
		p.logger.Info(context.Background(), "cleared old completed tasks",
			observe.Field{Key: "removed", Value: removed})
	}
	return removed
}
