// Package domain contains core concepts of the chat system.
// This file defines Session and Identity entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

import "time"

// Identity is what the credential verifier vouches for. It is immutable for
// the lifetime of a session. Nothing prevents two concurrent sessions from
// carrying the same display name.
type Identity struct {
	DisplayName string
}

// Session binds one live connection to an identity and its current channel.
// A session is created on a successful join, has its CurrentChannel updated
// on channel switch, and is destroyed on disconnect. The session table is
// the sole owner; channel member sets only hold denormalized display names.
type Session struct {
	ConnectionID   string
	Identity       Identity
	CurrentChannel string
	JoinedAt       time.Time
}
