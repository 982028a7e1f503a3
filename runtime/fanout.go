package runtime

import (
	"context"
	"log/slog"

	"retro-chat/contract"
	"retro-chat/domain/event"
)

// Fanout delivers outbound events to connection sinks and taps a copy of
// selected samples into the telemetry stream.
//
// Delivery is best-effort with no guarantees regarding ordering across
// connections, durability, or retries. A sink that cannot keep up loses the
// event; the fanout never blocks the coordination path.
type Fanout struct {
	log       *slog.Logger
	telemetry chan event.Event
}

func NewFanout(log *slog.Logger, telemetry chan event.Event) *Fanout {
	return &Fanout{log: log, telemetry: telemetry}
}

// Deliver sends one event to every sink in the recipient list.
func (f *Fanout) Deliver(ctx context.Context, sinks []contract.EventSink, evt event.Outbound) {
	for _, sink := range sinks {
		if err := sink.Consume(ctx, evt); err != nil {
			f.log.Debug("sink rejected event", "type", evt.Type, "err", err)
		}
	}
}

// Tap records a telemetry sample, dropping it when the stream is full.
func (f *Fanout) Tap(evt event.Event) {
	select {
	case f.telemetry <- evt:
	default:
		f.log.Debug("telemetry event lost", "type", evt.Type)
	}
}
