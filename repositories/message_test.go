package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"chatroom/domain/chat"
	"chatroom/errors"
)

func seedMessage(from, to, text string, at time.Time) chat.Message {
	return chat.Message{
		From:   from,
		To:     to,
		Text:   text,
		Kind:   chat.KindBroadcast,
		SentAt: at.Format(chat.TimeLayout),
		At:     at,
	}
}

func Test_Store_Assigns_ID_And_All_Is_Chronological(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	at := time.Now().UTC()
	seeds := []chat.Message{
		seedMessage("Ana", chat.Broadcast, "oi", at),
		seedMessage("Bob", "Ana", "tudo bem?", at.Add(1*time.Minute)),
		seedMessage("Carol", chat.Broadcast, "oi gente", at.Add(2*time.Minute)),
	}
	for _, m := range seeds {
		id, err := repository.Store(m)
		req.NoError(err)
		req.NotEqual(uuid.Nil, id)
	}

	fetched, err := repository.All()
	req.NoError(err)
	req.Equal(
		lo.Map(seeds, func(m chat.Message, _ int) string { return m.Text }),
		lo.Map(fetched, func(m chat.Message, _ int) string { return m.Text }),
	)
}

func Test_Get_Message_By_ID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	id, err := repository.Store(seedMessage("Ana", "Bob", "segredo", time.Now().UTC()))
	req.NoError(err)

	fetched, err := repository.Get(id)
	req.NoError(err)
	req.Equal(id, fetched.ID)
	req.Equal("segredo", fetched.Text)

	_, err = repository.Get(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_Update_Keeps_Storage_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	at := time.Now().UTC()
	first, err := repository.Store(seedMessage("Ana", chat.Broadcast, "primeira", at))
	req.NoError(err)
	_, err = repository.Store(seedMessage("Bob", chat.Broadcast, "segunda", at.Add(time.Minute)))
	req.NoError(err)

	edited, err := repository.Get(first)
	req.NoError(err)
	edited.Text = "editada"
	edited.SentAt = at.Add(2 * time.Minute).Format(chat.TimeLayout)
	req.NoError(repository.Update(edited))

	all, err := repository.All()
	req.NoError(err)
	req.Len(all, 2)
	// The edited message keeps its original position.
	req.Equal("editada", all[0].Text)
	req.Equal("segunda", all[1].Text)
}

func Test_Update_Unknown_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	m := seedMessage("Ana", chat.Broadcast, "fantasma", time.Now().UTC())
	m.ID = uuid.New()
	req.ErrorIs(repository.Update(m), errors.ErrMessageNotFound)
}

func Test_Delete_Message(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	id, err := repository.Store(seedMessage("Ana", chat.Broadcast, "apaga isso", time.Now().UTC()))
	req.NoError(err)

	req.NoError(repository.Delete(id))

	_, err = repository.Get(id)
	req.ErrorIs(err, errors.ErrMessageNotFound)

	req.ErrorIs(repository.Delete(id), errors.ErrMessageNotFound)

	all, err := repository.All()
	req.NoError(err)
	req.Empty(all)
}
