package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"retro-chat/contract"
	"retro-chat/domain"
	"retro-chat/domain/event"
	apperrors "retro-chat/errors"
)

// Coordinator is the session and channel engine. It owns the session table
// and the channel registry and is their only writer; a single mutex
// serializes every entry point, so the cross-entity membership invariant
// holds after each event completes.
//
// Credential verification is the one blocking call and happens before the
// lock is taken: a slow verifier stalls only that caller's join. Per
// connection, events arrive from a single transport goroutine, so one
// connection's own sequence is never reordered.
type Coordinator struct {
	mu       sync.Mutex
	log      *slog.Logger
	verifier contract.Verifier
	sessions *SessionTable
	channels *ChannelRegistry
	fanout   *Fanout
	banner   BannerScheduler
	sinks    map[string]contract.EventSink
	now      func() time.Time
}

func NewCoordinator(
	log *slog.Logger,
	verifier contract.Verifier,
	channels *ChannelRegistry,
	sessions *SessionTable,
	fanout *Fanout,
	banner BannerScheduler,
) *Coordinator {
	return &Coordinator{
		log:      log,
		verifier: verifier,
		sessions: sessions,
		channels: channels,
		fanout:   fanout,
		banner:   banner,
		sinks:    make(map[string]contract.EventSink),
		now:      time.Now,
	}
}

// Attach registers the outbound sink of a connection. It must happen before
// any event for that connection so error events can reach a client that has
// no session yet.
func (c *Coordinator) Attach(connectionID string, sink contract.EventSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sinks[connectionID] = sink
}

// Join authenticates a connection and enters it into a channel. The
// caller-supplied display name is authoritative; the verified identity only
// gates entry. An unknown channel name falls back to the default channel,
// never creating one. A repeated join for a live connection leaves its old
// channel first, so no membership entry leaks.
//
// Verification happens outside the lock, so a disconnect can complete while
// the credential is still being checked. The later operation wins: a join
// that re-acquires the lock and finds its connection's sink gone installs
// nothing.
func (c *Coordinator) Join(ctx context.Context, connectionID, displayName, token, channelName string) error {
	identity, err := c.verifier.Verify(token)
	if err != nil {
		c.mu.Lock()
		c.emitLocked(ctx, connectionID, event.NewError("Invalid authentication token"))
		c.mu.Unlock()
		return err
	}
	c.log.Debug("credential verified",
		"connection_id", connectionID,
		"subject", identity.DisplayName,
		"display_name", displayName,
	)

	c.mu.Lock()
	defer c.mu.Unlock()

	sink, attached := c.sinks[connectionID]
	if !attached {
		// Disconnect ran while the credential was being verified; there is
		// no connection left to create a session for.
		c.log.Debug("join abandoned, connection gone", "connection_id", connectionID)
		return nil
	}

	if prev, ok := c.sessions.Get(connectionID); ok {
		c.leaveLocked(ctx, prev)
	}

	ch := c.channels.Get(channelName)
	if ch == nil {
		ch = c.channels.Get(DefaultChannel)
	}

	session := &domain.Session{
		ConnectionID:   connectionID,
		Identity:       domain.Identity{DisplayName: displayName},
		CurrentChannel: ch.Name,
		JoinedAt:       c.now(),
	}
	c.sessions.Put(session)
	ch.AddMember(displayName)

	c.banner.Schedule(BannerJob{
		ConnectionID: connectionID,
		Sink:         sink,
		Lines:        welcomeLines(displayName, ch.Name),
	})

	c.broadcastLocked(ctx, ch.Name, connectionID, event.Outbound{
		Type: event.UserJoinedType,
		Payload: event.UserJoined{
			Username:     displayName,
			Timestamp:    c.now(),
			MembersCount: ch.MemberCount(),
		},
	})
	c.emitLocked(ctx, connectionID, event.NewSystemMessage(membersSnapshot(ch), c.now()))

	c.log.Info("user joined",
		"connection_id", connectionID,
		"username", displayName,
		"channel", ch.Name,
		"members", ch.MemberCount(),
	)
	return nil
}

// PostMessage appends a message to the target channel's history and
// broadcasts it to every member, sender included. Text is passed through
// untouched; trimming policy belongs to the presentation layer.
func (c *Coordinator) PostMessage(ctx context.Context, connectionID, text, targetChannel string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions.Get(connectionID)
	if !ok {
		c.emitLocked(ctx, connectionID, event.NewError("User not authenticated"))
		return apperrors.ErrNotAuthenticated
	}

	name := targetChannel
	if name == "" {
		name = session.CurrentChannel
	}

	msg := domain.NewMessage(session.Identity.DisplayName, text, c.now())

	ch := c.channels.Get(name)
	if ch == nil {
		// Nobody can be a member of a channel the registry does not track,
		// so there is neither history to append to nor anyone to reach.
		c.log.Debug("message to unknown channel dropped", "channel", name)
		return nil
	}
	ch.Append(msg)

	c.broadcastLocked(ctx, ch.Name, "", event.Outbound{
		Type: event.MessageType,
		Payload: event.Message{
			ID:        msg.ID,
			Author:    msg.Author,
			Text:      msg.Text,
			Timestamp: msg.CreatedAt,
		},
	})
	c.fanout.Tap(event.Event{
		Type:      event.MessagePostedType,
		CreatedAt: msg.CreatedAt,
		Payload:   event.MessagePosted{Channel: ch.Name, Author: msg.Author},
	})
	return nil
}

// RunCommand interprets a slash command and applies its effects to the
// calling connection only. Unauthenticated connections are silently ignored.
func (c *Coordinator) RunCommand(ctx context.Context, connectionID, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions.Get(connectionID)
	if !ok {
		return
	}

	effects := domain.Interpret(raw, domain.CommandContext{
		Session:      *session,
		ChannelNames: c.channels.Names(),
	})
	for _, eff := range effects {
		switch e := eff.(type) {
		case domain.SystemMessageEffect:
			c.emitLocked(ctx, connectionID, event.NewSystemMessage(e.Text, c.now()))
		case domain.MembersSnapshotEffect:
			c.emitLocked(ctx, connectionID, event.NewSystemMessage(membersSnapshot(c.channels.Get(e.Channel)), c.now()))
		case domain.ClearMessagesEffect:
			c.emitLocked(ctx, connectionID, event.Outbound{Type: event.ClearMessagesType})
		case domain.SwitchChannelEffect:
			c.emitLocked(ctx, connectionID, event.Outbound{
				Type:    event.SwitchChannelType,
				Payload: event.SwitchChannel{NewChannel: e.Channel},
			})
			c.switchLocked(ctx, session, e.Channel)
		}
	}
}

// SwitchChannel moves a session to another channel. Unknown names are
// accepted: the registry tracks an ad-hoc channel so membership and routing
// keep working. Peers in neither the old nor the new channel are notified.
func (c *Coordinator) SwitchChannel(ctx context.Context, connectionID, newChannel string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions.Get(connectionID)
	if !ok {
		return
	}
	c.switchLocked(ctx, session, newChannel)
}

// Disconnect removes a connection's sink and, when a session exists, leaves
// its channel and notifies the remaining members. Safe to call at any time;
// a disconnect with no prior join is a no-op, never an error.
func (c *Coordinator) Disconnect(ctx context.Context, connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.sinks, connectionID)

	session, ok := c.sessions.Get(connectionID)
	if !ok {
		return
	}
	c.leaveLocked(ctx, session)
	c.log.Info("user disconnected",
		"connection_id", connectionID,
		"username", session.Identity.DisplayName,
	)
}

// switchLocked performs the membership move shared by SwitchChannel and the
// /join command.
func (c *Coordinator) switchLocked(ctx context.Context, session *domain.Session, newName string) {
	name := session.Identity.DisplayName

	if old := c.channels.Get(session.CurrentChannel); old != nil {
		if !c.sessions.OthersWithName(old.Name, name, session.ConnectionID) {
			old.RemoveMember(name)
		}
		defer c.channels.Prune(old.Name)
	}

	newCh := c.channels.Ensure(newName)
	session.CurrentChannel = newCh.Name
	newCh.AddMember(name)

	c.emitLocked(ctx, session.ConnectionID,
		event.NewSystemMessage(fmt.Sprintf("Switched to #%s", newCh.Name), c.now()))
	c.emitLocked(ctx, session.ConnectionID,
		event.NewSystemMessage(membersSnapshot(newCh), c.now()))
}

// leaveLocked removes a session and its channel membership, broadcasting
// user_left to whoever stays behind. The session is deleted first so the
// shared-name check sees only the survivors.
func (c *Coordinator) leaveLocked(ctx context.Context, session *domain.Session) {
	name := session.Identity.DisplayName
	c.sessions.Delete(session.ConnectionID)

	ch := c.channels.Get(session.CurrentChannel)
	if ch == nil {
		return
	}
	if !c.sessions.OthersWithName(ch.Name, name, session.ConnectionID) {
		ch.RemoveMember(name)
	}

	c.broadcastLocked(ctx, ch.Name, session.ConnectionID, event.Outbound{
		Type: event.UserLeftType,
		Payload: event.UserLeft{
			Username:     name,
			Timestamp:    c.now(),
			MembersCount: ch.MemberCount(),
		},
	})
	c.channels.Prune(ch.Name)
}

// emitLocked delivers one event to a single connection, if it still has a
// sink.
func (c *Coordinator) emitLocked(ctx context.Context, connectionID string, evt event.Outbound) {
	sink, ok := c.sinks[connectionID]
	if !ok {
		return
	}
	c.fanout.Deliver(ctx, []contract.EventSink{sink}, evt)
}

// broadcastLocked delivers one event to every connection currently in the
// channel, optionally excluding one connection id.
func (c *Coordinator) broadcastLocked(ctx context.Context, channel, exceptConnectionID string, evt event.Outbound) {
	var sinks []contract.EventSink
	for _, s := range c.sessions.InChannel(channel) {
		if s.ConnectionID == exceptConnectionID {
			continue
		}
		if sink, ok := c.sinks[s.ConnectionID]; ok {
			sinks = append(sinks, sink)
		}
	}
	c.fanout.Deliver(ctx, sinks, evt)
}

// membersSnapshot renders the human-readable member list of a channel.
func membersSnapshot(ch *domain.Channel) string {
	if ch == nil {
		return "Users online: 0 ()"
	}
	members := ch.Members()
	return fmt.Sprintf("Users online in #%s: %d (%s)",
		ch.Name, len(members), strings.Join(members, ", "))
}

// welcomeLines is the login banner, played line by line with a delay between
// each, the way a teletype would greet you.
func welcomeLines(username, channel string) []string {
	return []string{
		"Welcome to this small corner of the internet!",
		"This chat server was created to power small hacker friendly communities. Be cool and respectful to each other.",
		"Type /help to see what you can do here.",
		fmt.Sprintf("Connected to #%s", channel),
		fmt.Sprintf("Your username is %s.", username),
	}
}
