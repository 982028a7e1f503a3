package event

import "time"

// Telemetry event types, sampled internally and never sent to clients.
const (
	MessagePostedType   Type = "TELEMETRY_MESSAGE_POSTED"
	ChannelCapacityType Type = "TELEMETRY_CHANNEL_CAPACITY"
	ProcessStatsType    Type = "TELEMETRY_PROCESS_STATS"
)

// Event is an internal telemetry sample. The telemetry stream is lossy by
// design: producers drop rather than block when the channel is full.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

// MessagePosted is recorded each time a chat message lands in a channel.
type MessagePosted struct {
	Channel string
	Author  string
}

// ChannelCapacity reports the fill level of an internal Go channel.
type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

// ProcessStats reports this process's own resource usage.
type ProcessStats struct {
	PID      int
	Status   string
	CPU      float64
	RSSBytes uint64
}
