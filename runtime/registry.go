// Package runtime hosts the session and channel coordination engine: the
// channel registry, the session table, and the coordinator that mutates both
// in response to connection events. It orchestrates the system without
// containing transport or presentation logic.
package runtime

import (
	"sort"

	"retro-chat/domain"
)

// ProvisionedChannels exist from startup and are never destroyed.
var ProvisionedChannels = []string{"general", "irc", "team"}

// DefaultChannel receives joins that name no channel or an unknown one.
const DefaultChannel = "general"

// ChannelRegistry owns every known channel. Besides the provisioned set it
// tracks ad-hoc channels created when a session switches to an unknown name;
// those disappear again once their last member leaves.
//
// The registry is not safe for concurrent use on its own: the Coordinator
// serializes access together with the session table so the membership
// invariant holds between events.
type ChannelRegistry struct {
	channels map[string]*domain.Channel
	fixed    map[string]struct{}
}

func NewChannelRegistry(names ...string) *ChannelRegistry {
	if len(names) == 0 {
		names = ProvisionedChannels
	}
	r := &ChannelRegistry{
		channels: make(map[string]*domain.Channel),
		fixed:    make(map[string]struct{}),
	}
	for _, name := range names {
		r.channels[name] = domain.NewChannel(name)
		r.fixed[name] = struct{}{}
	}
	return r
}

// Get returns the named channel or nil when unknown.
func (r *ChannelRegistry) Get(name string) *domain.Channel {
	return r.channels[name]
}

// Ensure returns the named channel, creating an ad-hoc entry on first
// reference. Only channel switches use this path; join never creates
// channels.
func (r *ChannelRegistry) Ensure(name string) *domain.Channel {
	if ch, ok := r.channels[name]; ok {
		return ch
	}
	ch := domain.NewChannel(name)
	r.channels[name] = ch
	return ch
}

// Prune drops an ad-hoc channel once it has no members left. Provisioned
// channels are permanent regardless of membership.
func (r *ChannelRegistry) Prune(name string) {
	if _, ok := r.fixed[name]; ok {
		return
	}
	if ch, ok := r.channels[name]; ok && ch.Empty() {
		delete(r.channels, name)
	}
}

// Names lists the known channels in stable order.
func (r *ChannelRegistry) Names() []string {
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
