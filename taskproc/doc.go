// Package taskproc runs background work for the digest pipeline:
// message analysis, digest assembly, and delivery jobs.
//
// Work is submitted to one of four priority queues (low, normal, high,
// critical). Each queue is FIFO and drained by its own consumer
// goroutine, so critical work never waits behind low-priority work;
// there is no ordering guarantee across priorities. Blocking work is
// declared as such at submission time (KindIO or KindCPU) and admitted
// through a bounded pool shared by all priorities, which means a burst
// of high-priority blocking work can still delay dispatch of lower
// priorities.
//
// A failing task is re-enqueued onto the same priority queue after a
// capped exponential backoff, min(2^retries, 60s), until its retry
// budget is spent; then it is marked failed with the error recorded.
// Failures are surfaced only through polling:
//
//	proc := taskproc.NewProcessor(taskproc.Config{})
//	if err := proc.Start(); err != nil {
//	    return err
//	}
//	defer proc.Stop()
//
//	id, err := proc.Submit(scoreMessages,
//	    taskproc.WithPriority(taskproc.PriorityHigh),
//	    taskproc.WithKind(taskproc.KindIO),
//	    taskproc.WithMaxRetries(3),
//	)
//	if err != nil {
//	    return err
//	}
//
//	view, ok := proc.GetTask(id)
//
// There are no task-level timeouts: a hung blocking callable occupies
// its pool slot until it returns. Task history is in-memory only and
// does not survive a restart.
package taskproc
