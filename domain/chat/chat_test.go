package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessage_VisibleTo(t *testing.T) {
	req := require.New(t)

	broadcast := Message{From: "Ana", To: Broadcast}
	private := Message{From: "Ana", To: "Bob"}

	req.True(broadcast.VisibleTo("Carol"))
	req.True(private.VisibleTo("Ana"))
	req.True(private.VisibleTo("Bob"))
	req.False(private.VisibleTo("Carol"))
}

func TestParticipant_Stale(t *testing.T) {
	req := require.New(t)
	now := time.Date(2024, 5, 10, 14, 30, 0, 0, time.UTC)
	threshold := 10 * time.Second

	req.True(Participant{LastSeenAt: now.Add(-15 * time.Second)}.Stale(now, threshold))
	req.False(Participant{LastSeenAt: now.Add(-5 * time.Second)}.Stale(now, threshold))
	// Exactly at the threshold is not yet stale.
	req.False(Participant{LastSeenAt: now.Add(-threshold)}.Stale(now, threshold))
}

func TestStatusMessage(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 5, 10, 14, 30, 5, 0, time.UTC)

	m := StatusMessage("Ana", JoinedText, at)
	req.Equal("Ana", m.From)
	req.Equal(Broadcast, m.To)
	req.Equal(KindStatus, m.Kind)
	req.Equal("14:30:05", m.SentAt)
}
