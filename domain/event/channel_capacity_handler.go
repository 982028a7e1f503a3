package event

import (
	"fmt"
	"log/slog"

	apperrors "retro-chat/errors"
)

// ChannelCapacityHandler watches the fill level of internal channels.
// Useful for observability, detecting backpressure, and avoiding message
// drops.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	lowCapacityThreshold int
}

func NewChannelCapacityHandler(log *slog.Logger, lowCapacityThreshold int) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, lowCapacityThreshold: lowCapacityThreshold}
}

func (h ChannelCapacityHandler) Handle(event Event) {
	if event.Type != ChannelCapacityType {
		return
	}
	payload, ok := event.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error(apperrors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.log.Debug(fmt.Sprintf("Channel %s usage: %d / %d",
		payload.ChannelName, payload.Length, payload.Capacity))
	if payload.Capacity <= 0 {
		// Unbuffered channel, nothing to watch.
		return
	}
	capacityLeft := payload.Capacity - payload.Length
	if capacityLeft > 0 && capacityLeft <= h.lowCapacityThreshold {
		h.log.Warn(fmt.Sprintf("internal channel %s almost full, capacity left: %d",
			payload.ChannelName, capacityLeft))
	}
}
