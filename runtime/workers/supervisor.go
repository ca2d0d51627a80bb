// Package workers holds the long-running goroutines of the server and the
// supervisor that keeps them contained.
package workers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tchat/contract"
	"tchat/errors"
)

const waitTimeBeforeRestart = 200 * time.Millisecond

// Supervisor runs workers in dedicated goroutines, recovers their panics
// and restarts the ones that fail. A failure in one worker must not stop
// the supervisor itself. Session workers return nil on disconnect, so they
// are never restarted; only a worker returning an error comes back.
type Supervisor struct {
	wg  sync.WaitGroup
	log *slog.Logger
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{log: log}
}

// Start runs a worker under supervision in its own goroutine.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	name := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		for {
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			err := func() (err error) {
				defer func() {
					if r := recover(); r != nil {
						s.log.Error("Worker panicked", "name", name, "panic", r)
						err = errors.ErrSessionPanic
					}
				}()
				return worker.Run(ctx)
			}()

			if err == nil {
				// Terminated properly, never restart.
				s.log.Debug("Worker finished", "name", name)
				return
			}
			if ctx.Err() != nil {
				s.log.Info("Worker stopped (context canceled)", "name", name)
				return
			}

			s.log.Warn("Worker crashed, restarting", "name", name, "error", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(waitTimeBeforeRestart):
			}
		}
	}()
}

// Wait blocks until every supervised worker has finished.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
