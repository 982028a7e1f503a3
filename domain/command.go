package domain

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// CommandContext is the read-only view the interpreter needs: the caller's
// session and the channel names currently known to the registry.
type CommandContext struct {
	Session      Session
	ChannelNames []string
}

// Effect is one intended side effect of a slash command. Effects are applied
// by the coordinator to the calling connection only; commands never reach
// other members.
type Effect interface {
	isEffect()
}

// SystemMessageEffect sends an informational line to the caller.
type SystemMessageEffect struct {
	Text string
}

// MembersSnapshotEffect sends the caller a member list of the named channel.
type MembersSnapshotEffect struct {
	Channel string
}

// SwitchChannelEffect asks the coordinator to move the caller to another
// channel and to redirect the caller's client there.
type SwitchChannelEffect struct {
	Channel string
}

// ClearMessagesEffect tells the caller's client to clear its local message
// view. Server-side history is untouched.
type ClearMessagesEffect struct{}

func (SystemMessageEffect) isEffect()   {}
func (MembersSnapshotEffect) isEffect() {}
func (SwitchChannelEffect) isEffect()   {}
func (ClearMessagesEffect) isEffect()   {}

// Interpret maps one leading-slash command to its effects. It is a pure
// function and never fails: unrecognized input degrades to an informational
// system message for the caller.
func Interpret(raw string, cctx CommandContext) []Effect {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "/")
	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return nil
	}
	word, args := fields[0], fields[1:]

	switch strings.ToLower(word) {
	case "help":
		return []Effect{SystemMessageEffect{
			Text: "Available commands: /help, /users, /channels, /join <channel>, /clear",
		}}

	case "users":
		return []Effect{MembersSnapshotEffect{Channel: cctx.Session.CurrentChannel}}

	case "channels":
		names := lo.Map(cctx.ChannelNames, func(name string, _ int) string {
			return "#" + name
		})
		return []Effect{SystemMessageEffect{
			Text: fmt.Sprintf("Available channels: %s", strings.Join(names, ", ")),
		}}

	case "join":
		if len(args) == 0 {
			return nil
		}
		target := strings.TrimPrefix(args[0], "#")
		if lo.Contains(cctx.ChannelNames, target) {
			return []Effect{SwitchChannelEffect{Channel: target}}
		}
		return []Effect{SystemMessageEffect{
			Text: fmt.Sprintf("Channel #%s does not exist", target),
		}}

	case "clear":
		return []Effect{ClearMessagesEffect{}}

	default:
		return []Effect{SystemMessageEffect{
			Text: fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", word),
		}}
	}
}
