package test

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"chatroom/domain/chat"
	"chatroom/internal"
	"chatroom/repositories"
	"chatroom/services"
)

// Full lifecycle over a real store: register, chat, go idle, get swept.
func Test_Scenario(t *testing.T) {
	req := require.New(t)
	// Reduced to 16 Mo for testing (avoid 20 Go of storage)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	defer db.Close()

	log := internal.GetLogger("DEBUG")
	participants := repositories.NewParticipantRepository(db)
	messages := repositories.NewMessageRepository(db)
	presence := services.NewPresenceService(participants, messages, log)
	messageService := services.NewMessageService(participants, messages, nil, log)

	// 1. Ana and Bob join; each join leaves a status notice.
	_, err = presence.Register("Ana")
	req.NoError(err)
	_, err = presence.Register("Bob")
	req.NoError(err)

	// 2. Ana chats: one broadcast, one private to Bob.
	_, err = messageService.Send(chat.SendCommand{
		From: "Ana", To: chat.Broadcast, Text: "oi gente", Kind: "message",
	})
	req.NoError(err)
	_, err = messageService.Send(chat.SendCommand{
		From: "Ana", To: "Bob", Text: "oi bob", Kind: "private_message",
	})
	req.NoError(err)

	// 3. Bob heartbeats; Ana does not.
	req.NoError(presence.Heartbeat("Bob"))

	// 4. Push Ana's last activity past the threshold and sweep. Only Ana
	// expires; Bob's heartbeat keeps him inside the window.
	base := time.Now().UTC()
	req.NoError(participants.Touch("Ana", base.Add(-15*time.Second)))
	presence.Sweep(base.Add(time.Second), 10*time.Second)

	active, err := presence.ListActive()
	req.NoError(err)
	req.Equal([]string{"Bob"}, lo.Map(active, func(p chat.Participant, _ int) string {
		return p.Name
	}))

	// 5. Bob still sees the whole story, leave notice included.
	visible, err := messageService.ListVisible("Bob", 0)
	req.NoError(err)
	texts := lo.Map(visible, func(m chat.Message, _ int) string { return m.Text })
	req.Equal([]string{
		chat.JoinedText, // Ana joins
		chat.JoinedText, // Bob joins
		"oi gente",
		"oi bob",
		chat.LeftText, // Ana is swept
	}, texts)

	last := visible[len(visible)-1]
	req.Equal("Ana", last.From)
	req.Equal(chat.KindStatus, last.Kind)
}
