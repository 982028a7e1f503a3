package workers

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"retro-chat/domain/event"
)

type MonitoredChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically reports the capacity and length of the
// server's internal channels. Reading len and cap of a channel is
// non-blocking, so sampling never interferes with other goroutines, and a
// dropped sample costs nothing because the next tick takes another.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []MonitoredChannel
	telemetryChan  chan event.Event
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger,
	channels []MonitoredChannel, telemetryChan chan event.Event,
	metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			for _, mc := range w.channels {
				v := reflect.ValueOf(mc.Channel)
				if v.Kind() != reflect.Chan {
					w.log.Error("Provided object is not a channel", "name", mc.Name)
					continue
				}
				select {
				case <-ctx.Done():
					return nil
				case w.telemetryChan <- toCapacityEvent(mc.Name, v.Cap(), v.Len()):
				default:
					w.log.Debug("Observability telemetry event lost")
				}
			}
		}
	}
}

func toCapacityEvent(name string, capacity, length int) event.Event {
	return event.Event{
		Type:      event.ChannelCapacityType,
		CreatedAt: time.Now().UTC(),
		Payload: event.ChannelCapacity{
			ChannelName: name,
			Capacity:    capacity,
			Length:      length,
		},
	}
}
