package workers

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"

	"tchat/observability"
)

// TelemetryWorker periodically logs the server counters together with
// process-level resource usage. Best effort only; a metric that cannot be
// read is skipped, never fatal.
type TelemetryWorker struct {
	log      *slog.Logger
	stats    *observability.Stats
	interval time.Duration
	proc     *process.Process
}

func NewTelemetryWorker(log *slog.Logger, stats *observability.Stats, interval time.Duration) (*TelemetryWorker, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &TelemetryWorker{log: log, stats: stats, interval: interval, proc: proc}, nil
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping telemetry")
			return nil
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *TelemetryWorker) report() {
	snap := w.stats.Read()
	attrs := []any{
		"sessions_opened", snap.SessionsOpened,
		"sessions_closed", snap.SessionsClosed,
		"names_rejected", snap.NamesRejected,
		"broadcasts", snap.Broadcasts,
		"directed", snap.Directed,
		"delivery_failures", snap.DeliveryFailures,
		"goroutines", runtime.NumGoroutine(),
	}
	if mem, err := w.proc.MemoryInfo(); err == nil {
		attrs = append(attrs, "rss_mb", mem.RSS/1024/1024)
	}
	if cpu, err := w.proc.CPUPercent(); err == nil {
		attrs = append(attrs, "cpu_percent", cpu)
	}
	for lang, count := range snap.Languages {
		attrs = append(attrs, "lang_"+lang, count)
	}
	w.log.Info("Telemetry", attrs...)
}
