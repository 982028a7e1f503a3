package runtime

import "retro-chat/contract"

// BannerJob is one login banner: an ordered list of system-message lines to
// play to a single connection, spaced out in time like a teletype.
type BannerJob struct {
	ConnectionID string
	Sink         contract.EventSink
	Lines        []string
}

// BannerScheduler accepts banner jobs for asynchronous playback. Schedule
// must return immediately; the timers run off the coordination path so a
// banner in progress never delays other connections' events.
type BannerScheduler interface {
	Schedule(job BannerJob)
}
