package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"retro-chat/domain/event"
)

// HeartbeatWorker samples this process's own resource usage (RSS, CPU, OS
// status) on a timer and feeds it into the telemetry stream.
type HeartbeatWorker struct {
	log           *slog.Logger
	telemetryChan chan event.Event
	interval      time.Duration
}

func NewHeartbeatWorker(log *slog.Logger,
	telemetryChan chan event.Event, interval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{log: log, telemetryChan: telemetryChan, interval: interval}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, status, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			select {
			case w.telemetryChan <- event.Event{
				Type:      event.ProcessStatsType,
				CreatedAt: time.Now().UTC(),
				Payload: event.ProcessStats{
					PID:      os.Getpid(),
					Status:   status,
					CPU:      cpu,
					RSSBytes: rss,
				},
			}:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

// selfStats retrieves memory, CPU, and OS status for the given process.
func selfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
