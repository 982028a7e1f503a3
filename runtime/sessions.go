package runtime

import "retro-chat/domain"

// SessionTable maps each live connection to its session. It is the sole
// owner of sessions; channels only carry denormalized display names. Owned
// and serialized by the Coordinator.
type SessionTable struct {
	sessions map[string]*domain.Session
}

func NewSessionTable() *SessionTable {
	return &SessionTable{sessions: make(map[string]*domain.Session)}
}

func (t *SessionTable) Get(connectionID string) (*domain.Session, bool) {
	s, ok := t.sessions[connectionID]
	return s, ok
}

func (t *SessionTable) Put(s *domain.Session) {
	t.sessions[s.ConnectionID] = s
}

func (t *SessionTable) Delete(connectionID string) {
	delete(t.sessions, connectionID)
}

func (t *SessionTable) Len() int {
	return len(t.sessions)
}

// InChannel returns every session whose current channel is the named one.
func (t *SessionTable) InChannel(channel string) []*domain.Session {
	var out []*domain.Session
	for _, s := range t.sessions {
		if s.CurrentChannel == channel {
			out = append(out, s)
		}
	}
	return out
}

// OthersWithName reports whether a different live session in the same
// channel carries the same display name. Member sets hold names, not
// sessions, so a name may only be removed when its last bearer leaves.
func (t *SessionTable) OthersWithName(channel, displayName, exceptConnectionID string) bool {
	for _, s := range t.sessions {
		if s.ConnectionID == exceptConnectionID {
			continue
		}
		if s.CurrentChannel == channel && s.Identity.DisplayName == displayName {
			return true
		}
	}
	return false
}
