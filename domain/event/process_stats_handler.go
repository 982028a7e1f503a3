package event

import (
	"log/slog"

	apperrors "retro-chat/errors"
)

// ProcessStatsHandler logs the heartbeat samples of this process.
type ProcessStatsHandler struct {
	log *slog.Logger
}

func NewProcessStatsHandler(log *slog.Logger) *ProcessStatsHandler {
	return &ProcessStatsHandler{log: log}
}

func (h ProcessStatsHandler) Handle(event Event) {
	if event.Type != ProcessStatsType {
		return
	}
	payload, ok := event.Payload.(ProcessStats)
	if !ok {
		h.log.Error(apperrors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.log.Info("telemetry: process stats",
		"pid", payload.PID,
		"status", payload.Status,
		"cpu_percent", payload.CPU,
		"rss_bytes", payload.RSSBytes,
	)
}
