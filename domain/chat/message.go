// Package chat contains core concepts of the chat room.
// This file defines Message records and the visibility rules.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the three message categories.
type Kind string

const (
	// KindBroadcast is a public message addressed to the whole room.
	KindBroadcast Kind = "message"
	// KindPrivate is a message addressed to a single participant.
	KindPrivate Kind = "private_message"
	// KindStatus marks system-generated join/leave notices. It is never
	// accepted as user input.
	KindStatus Kind = "status"
)

// Broadcast is the sentinel recipient meaning "all participants".
const Broadcast = "Todos"

// TimeLayout is the time-of-day format carried on the wire in SentAt.
const TimeLayout = "15:04:05"

// Texts of the system notices emitted on join and on eviction.
const (
	JoinedText = "entra na sala..."
	LeftText   = "sai da sala..."
)

// Message is a chat room message. At is the creation instant and fixes the
// message's position in storage order; SentAt is the formatted time-of-day
// shown to clients and is refreshed when the sender edits the message.
type Message struct {
	ID     uuid.UUID
	From   string
	To     string
	Text   string
	Kind   Kind
	SentAt string
	Lang   string
	At     time.Time
}

// VisibleTo reports whether the message may be shown to the given requester:
// the requester sent it, is its recipient, or it is addressed to the room.
func (m Message) VisibleTo(requester string) bool {
	return m.From == requester || m.To == requester || m.To == Broadcast
}

// StatusMessage builds a system notice from the given participant to the room.
func StatusMessage(from, text string, at time.Time) Message {
	return Message{
		From:   from,
		To:     Broadcast,
		Text:   text,
		Kind:   KindStatus,
		SentAt: at.Format(TimeLayout),
		At:     at,
	}
}
