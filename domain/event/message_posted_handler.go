package event

import (
	"log/slog"

	apperrors "retro-chat/errors"
)

// MessagePostedHandler counts delivered chat messages.
// Useful for updating observability metrics, logging, or telemetry.
type MessagePostedHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewMessagePostedHandler(log *slog.Logger, counter *Counter) *MessagePostedHandler {
	return &MessagePostedHandler{log: log, counter: counter}
}

func (h *MessagePostedHandler) Handle(event Event) {
	if event.Type != MessagePostedType {
		return
	}
	payload, ok := event.Payload.(MessagePosted)
	if !ok {
		h.log.Error(apperrors.ErrInvalidPayload.Error(), "type", event.Type)
		return
	}
	h.counter.Increment(MessagePostedType)
	h.log.Debug("message posted",
		"channel", payload.Channel,
		"author", payload.Author,
		"total", h.counter.Get(MessagePostedType),
	)
}
