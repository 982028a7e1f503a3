// Package domain contains core concepts of the chat system.
// This file defines Message and related rules.
// Messages are immutable once created.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event owned by exactly one channel's
// history.
type Message struct {
	ID        string
	Author    string
	Text      string
	CreatedAt time.Time
}

// NewMessage mints a message with a process-unique id.
func NewMessage(author, text string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Author:    author,
		Text:      text,
		CreatedAt: at,
	}
}
