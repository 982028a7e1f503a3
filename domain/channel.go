package domain

import (
	"sort"

	"github.com/samber/lo"
)

// HistoryCapacity bounds each channel's in-memory message log. Appending
// beyond it evicts the oldest entries so only the most recent messages
// remain, in arrival order.
const HistoryCapacity = 100

// Channel is a named room with a member set and a bounded message history.
// The member set holds display names, denormalized from the session table.
//
// Channel is not safe for concurrent use on its own: the coordinator
// serializes every mutation.
type Channel struct {
	Name    string
	members map[string]struct{}
	history []Message
}

func NewChannel(name string) *Channel {
	return &Channel{
		Name:    name,
		members: make(map[string]struct{}),
	}
}

func (c *Channel) AddMember(displayName string) {
	c.members[displayName] = struct{}{}
}

func (c *Channel) RemoveMember(displayName string) {
	delete(c.members, displayName)
}

func (c *Channel) HasMember(displayName string) bool {
	_, ok := c.members[displayName]
	return ok
}

func (c *Channel) MemberCount() int {
	return len(c.members)
}

func (c *Channel) Empty() bool {
	return len(c.members) == 0
}

// Members returns the display names in stable order.
func (c *Channel) Members() []string {
	names := lo.Keys(c.members)
	sort.Strings(names)
	return names
}

// Append stores a message, evicting the oldest entries beyond capacity.
func (c *Channel) Append(m Message) {
	c.history = append(c.history, m)
	if len(c.history) > HistoryCapacity {
		c.history = c.history[len(c.history)-HistoryCapacity:]
	}
}

// History returns a copy of the message log, oldest first.
func (c *Channel) History() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}
