package workers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingWorker struct {
	runs       int32
	panicFirst bool
}

func (w *countingWorker) Run(ctx context.Context) error {
	n := atomic.AddInt32(&w.runs, 1)
	if w.panicFirst && n == 1 {
		panic("boom")
	}
	return nil
}

type blockingWorker struct{}

func (w *blockingWorker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func TestSupervisor_WorkerFinishingIsNotRestarted(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug))
	worker := &countingWorker{}

	sup.Start(context.Background(), worker)
	sup.Wait()

	// A nil return means terminated properly, never restart
	req.Equal(int32(1), atomic.LoadInt32(&worker.runs))
}

func TestSupervisor_PanickingWorkerIsRestarted(t *testing.T) {
	req := require.New(t)
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug))
	worker := &countingWorker{panicFirst: true}

	sup.Start(context.Background(), worker)
	sup.Wait()

	// First run panics, second run finishes cleanly
	req.Equal(int32(2), atomic.LoadInt32(&worker.runs))
}

func TestSupervisor_CancellationUnblocksWait(t *testing.T) {
	sup := NewSupervisor(logs.GetLoggerFromLevel(slog.LevelDebug))
	ctx, cancel := context.WithCancel(context.Background())
	sup.Start(ctx, &blockingWorker{})

	done := make(chan struct{})
	go func() {
		sup.Wait()
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not release Wait after cancellation")
	}
}
