package taskproc

import (
	"context"
	"testing"
	"time"
)

// BenchmarkProcessor_SubmitAndComplete measures submit-to-completion
// throughput for inline work.
func BenchmarkProcessor_SubmitAndComplete(b *testing.B) {
	p := NewProcessor(Config{QueueSize: b.N + 1})
	if err := p.Start(); err != nil {
		b.Fatal(err)
	}
	defer p.Stop()

	done := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		return nil, nil
	}

	b.ResetTimer()
	go func() {
		for {
			if int(p.Stats().TotalCompleted) >= b.N {
				close(done)
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	for i := 0; i < b.N; i++ {
		if _, err := p.Submit(fn); err != nil {
			b.Fatal(err)
		}
	}
	<-done
}

// BenchmarkProcessor_GetTask measures snapshot lookup.
func BenchmarkProcessor_GetTask(b *testing.B) {
	p := NewProcessor(Config{})
	if err := p.Start(); err != nil {
		b.Fatal(err)
	}
	defer p.Stop()

	id, err := p.Submit(func(ctx context.Context) (any, error) {
		return nil, nil
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = p.GetTask(id)
	}
}

// BenchmarkProcessor_Stats measures the stats snapshot.
func BenchmarkProcessor_Stats(b *testing.B) {
	p := NewProcessor(Config{})
	if err := p.Start(); err != nil {
		b.Fatal(err)
	}
	defer p.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Stats()
	}
}
