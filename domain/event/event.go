package event

import "time"

// Type discriminates an event envelope on the wire and in the telemetry
// stream.
type Type string

// Outbound event types, delivered to connections.
const (
	ErrorType         Type = "error"
	SystemMessageType Type = "system_message"
	MessageType       Type = "message"
	UserJoinedType    Type = "user_joined"
	UserLeftType      Type = "user_left"
	ClearMessagesType Type = "clear_messages"
	SwitchChannelType Type = "switch_channel"
)

// Outbound is the envelope delivered to a connection's sink, addressed
// either to the originating connection or broadcast to a channel's members.
type Outbound struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload,omitempty"`
}

type Error struct {
	Message string `json:"message"`
}

type SystemMessage struct {
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type Message struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

type UserJoined struct {
	Username     string    `json:"username"`
	Timestamp    time.Time `json:"timestamp"`
	MembersCount int       `json:"membersCount"`
}

type UserLeft struct {
	Username     string    `json:"username"`
	Timestamp    time.Time `json:"timestamp"`
	MembersCount int       `json:"membersCount"`
}

// SwitchChannel is a server-initiated redirect, used by the /join command.
type SwitchChannel struct {
	NewChannel string `json:"newChannel"`
}

func NewError(message string) Outbound {
	return Outbound{Type: ErrorType, Payload: Error{Message: message}}
}

func NewSystemMessage(text string, at time.Time) Outbound {
	return Outbound{Type: SystemMessageType, Payload: SystemMessage{Text: text, Timestamp: at}}
}
