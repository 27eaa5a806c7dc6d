// Package chat contains core concepts of the chat room.
// This file defines Participant entities and presence rules.
// No storage, network, or UI logic should be added here.
package chat

import "time"

// Participant is a registered chat room identity. The name is the key:
// it is unique among currently registered participants (case-sensitive).
type Participant struct {
	Name       string
	LastSeenAt time.Time
}

// Stale reports whether the participant has been inactive for longer than
// the given threshold at the given instant. Staleness makes a participant
// eligible for eviction by the sweep; the sweep tick rate is independent.
func (p Participant) Stale(now time.Time, threshold time.Duration) bool {
	return now.Sub(p.LastSeenAt) > threshold
}
