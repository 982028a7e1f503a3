// Package e2e exercises the full service stack: real verifier, real banner
// worker under the supervisor, real coordinator, fake transport sinks.
package e2e

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"retro-chat/auth"
	"retro-chat/domain/event"
	"retro-chat/runtime"
	"retro-chat/runtime/workers"
	"retro-chat/services"
)

type client struct {
	mu     sync.Mutex
	events []event.Outbound
}

func (c *client) Consume(_ context.Context, e event.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *client) snapshot() []event.Outbound {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event.Outbound, len(c.events))
	copy(out, c.events)
	return out
}

func (c *client) systemTexts() []string {
	var out []string
	for _, e := range c.snapshot() {
		if e.Type == event.SystemMessageType {
			out = append(out, e.Payload.(event.SystemMessage).Text)
		}
	}
	return out
}

func (c *client) countOf(t event.Type) int {
	n := 0
	for _, e := range c.snapshot() {
		if e.Type == t {
			n++
		}
	}
	return n
}

type stack struct {
	chat       services.IChatService
	tokens     *auth.TokenManager
	supervisor *workers.Supervisor
}

func newStack(t *testing.T) *stack {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("e2e-secret", time.Hour)
	verifier := auth.NewVerifier(tokens)

	bannerJobs := make(chan runtime.BannerJob, 16)
	banner := workers.NewBannerWorker(log, bannerJobs, time.Millisecond)
	telemetry := make(chan event.Event, 64)

	coordinator := runtime.NewCoordinator(
		log,
		verifier,
		runtime.NewChannelRegistry(),
		runtime.NewSessionTable(),
		runtime.NewFanout(log, telemetry),
		banner,
	)

	supervisor := workers.NewSupervisor(log)
	supervisor.Add(banner)

	done := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(done)
	}()
	t.Cleanup(func() {
		supervisor.Stop()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("supervisor did not shut down")
		}
	})

	return &stack{
		chat:       services.NewChatService(coordinator),
		tokens:     tokens,
		supervisor: supervisor,
	}
}

func (s *stack) connect(t *testing.T, connectionID, username, channel string) *client {
	t.Helper()
	req := require.New(t)

	token, err := s.tokens.Generate(username)
	req.NoError(err)

	c := &client{}
	s.chat.Attach(connectionID, c)
	req.NoError(s.chat.Join(context.Background(), connectionID, username, token, channel))
	return c
}

func TestChatFlow_Two_Users_Full_Session(t *testing.T) {
	req := require.New(t)
	s := newStack(t)
	ctx := context.Background()

	alice := s.connect(t, "conn-a", "alice", "general")

	// Alice's full banner arrives asynchronously, then the snapshot
	require.Eventually(t, func() bool {
		return len(alice.systemTexts()) >= 6
	}, 5*time.Second, 5*time.Millisecond)
	texts := alice.systemTexts()
	req.Contains(texts, "Type /help to see what you can do here.")
	req.Contains(texts, "Connected to #general")
	req.Contains(texts, "Your username is alice.")
	req.Contains(texts, "Users online in #general: 1 (alice)")

	bob := s.connect(t, "conn-b", "bob", "general")

	// Alice sees bob join with the new member count
	require.Eventually(t, func() bool {
		return alice.countOf(event.UserJoinedType) == 1
	}, 5*time.Second, 5*time.Millisecond)

	// A message reaches both, in both directions
	req.NoError(s.chat.PostMessage(ctx, "conn-a", "morning", ""))
	req.NoError(s.chat.PostMessage(ctx, "conn-b", "hey", ""))
	require.Eventually(t, func() bool {
		return alice.countOf(event.MessageType) == 2 && bob.countOf(event.MessageType) == 2
	}, 5*time.Second, 5*time.Millisecond)

	// Bob switches away; alice's next message no longer reaches him
	s.chat.SwitchChannel(ctx, "conn-b", "team")
	req.NoError(s.chat.PostMessage(ctx, "conn-a", "still there?", ""))
	time.Sleep(20 * time.Millisecond)
	req.Equal(2, bob.countOf(event.MessageType))
	req.Equal(3, alice.countOf(event.MessageType))

	// Bob disconnects from #team; alice in #general hears nothing
	s.chat.Disconnect(ctx, "conn-b")
	time.Sleep(20 * time.Millisecond)
	req.Equal(0, alice.countOf(event.UserLeftType))

	s.chat.Disconnect(ctx, "conn-a")
}

func TestChatFlow_Commands_Round_Trip(t *testing.T) {
	req := require.New(t)
	s := newStack(t)
	ctx := context.Background()

	alice := s.connect(t, "conn-a", "alice", "irc")
	require.Eventually(t, func() bool {
		return len(alice.systemTexts()) >= 6
	}, 5*time.Second, 5*time.Millisecond)

	s.chat.RunCommand(ctx, "conn-a", "/channels")
	s.chat.RunCommand(ctx, "conn-a", "/join general")
	s.chat.RunCommand(ctx, "conn-a", "/clear")

	require.Eventually(t, func() bool {
		return alice.countOf(event.ClearMessagesType) == 1
	}, 5*time.Second, 5*time.Millisecond)

	req.Equal(1, alice.countOf(event.SwitchChannelType))
	texts := alice.systemTexts()
	req.Contains(texts, "Switched to #general")
	req.Contains(texts, "Users online in #general: 1 (alice)")
}

func TestChatFlow_Bad_Token_Is_Refused(t *testing.T) {
	req := require.New(t)
	s := newStack(t)

	c := &client{}
	s.chat.Attach("conn-x", c)
	err := s.chat.Join(context.Background(), "conn-x", "mallory", "forged-token", "general")

	req.Error(err)
	require.Eventually(t, func() bool {
		return c.countOf(event.ErrorType) == 1
	}, 5*time.Second, 5*time.Millisecond)
	req.Equal(0, c.countOf(event.SystemMessageType))
}
