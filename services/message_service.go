package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"chatroom/domain/chat"
	"chatroom/errors"
	"chatroom/moderation"
	"chatroom/repositories"
	"chatroom/validation"
)

type IMessageService interface {
	Send(cmd chat.SendCommand) (chat.Message, error)
	ListVisible(requester string, limit int) ([]chat.Message, error)
	Edit(cmd chat.EditCommand) error
	Delete(id uuid.UUID, requester string) error
}

type MessageService struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	censor       *moderation.Censor
	log          *slog.Logger
	now          func() time.Time
}

func NewMessageService(
	participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository,
	censor *moderation.Censor,
	log *slog.Logger,
) *MessageService {
	return &MessageService{
		participants: participants,
		messages:     messages,
		censor:       censor,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Send validates and persists a broadcast or private message. The sender
// must be a currently registered participant. Nothing is written when
// validation or the sender check fails.
func (s *MessageService) Send(cmd chat.SendCommand) (chat.Message, error) {
	text := validation.Sanitize(cmd.Text)
	err := validation.ValidateMessage(validation.MessageRequest{
		From: cmd.From,
		To:   cmd.To,
		Text: text,
		Kind: cmd.Kind,
	})
	if err != nil {
		return chat.Message{}, err
	}

	if _, err := s.participants.Get(cmd.From); err != nil {
		if stderrors.Is(err, errors.ErrParticipantNotFound) {
			return chat.Message{}, fmt.Errorf("%w: %s", errors.ErrUnknownSender, cmd.From)
		}
		return chat.Message{}, err
	}

	now := s.now()
	m := chat.Message{
		From:   cmd.From,
		To:     cmd.To,
		Text:   s.moderate(cmd.From, text),
		Kind:   chat.Kind(cmd.Kind),
		SentAt: now.Format(chat.TimeLayout),
		Lang:   langCode(text),
		At:     now,
	}
	m.ID, err = s.messages.Store(m)
	if err != nil {
		return chat.Message{}, err
	}
	return m, nil
}

// ListVisible returns, in storage order, every message the requester sent,
// received, or that was addressed to the whole room. A positive limit keeps
// only the trailing (most recent) entries; any other limit means no cap.
func (s *MessageService) ListVisible(requester string, limit int) ([]chat.Message, error) {
	if _, err := s.participants.Get(requester); err != nil {
		if stderrors.Is(err, errors.ErrParticipantNotFound) {
			return nil, fmt.Errorf("%w: requester %q is not registered", errors.ErrInvalidInput, requester)
		}
		return nil, err
	}

	all, err := s.messages.All()
	if err != nil {
		return nil, err
	}
	visible := lo.Filter(all, func(m chat.Message, _ int) bool {
		return m.VisibleTo(requester)
	})
	if limit > 0 && len(visible) > limit {
		visible = visible[len(visible)-limit:]
	}
	return visible, nil
}

// Edit rewrites one of the requester's own messages. Checks run in order:
// existence, ownership, then field validation; the record is untouched
// unless all three pass. SentAt is refreshed to the edit time.
func (s *MessageService) Edit(cmd chat.EditCommand) error {
	m, err := s.messages.Get(cmd.ID)
	if err != nil {
		return err
	}
	if m.From != cmd.Requester {
		return fmt.Errorf("%w: only the sender may edit a message", errors.ErrForbidden)
	}

	text := validation.Sanitize(cmd.Text)
	err = validation.ValidateMessage(validation.MessageRequest{
		From: m.From,
		To:   cmd.To,
		Text: text,
		Kind: cmd.Kind,
	})
	if err != nil {
		return err
	}

	m.To = cmd.To
	m.Text = s.moderate(m.From, text)
	m.Kind = chat.Kind(cmd.Kind)
	m.SentAt = s.now().Format(chat.TimeLayout)
	m.Lang = langCode(text)
	return s.messages.Update(m)
}

// Delete permanently removes one of the requester's own messages.
func (s *MessageService) Delete(id uuid.UUID, requester string) error {
	m, err := s.messages.Get(id)
	if err != nil {
		return err
	}
	if m.From != requester {
		return fmt.Errorf("%w: only the sender may delete a message", errors.ErrForbidden)
	}
	return s.messages.Delete(id)
}

func (s *MessageService) moderate(from, text string) string {
	censored, matched := s.censor.Apply(text)
	if len(matched) > 0 {
		s.log.Warn("Censored words in message", "from", from, "words", matched)
	}
	return censored
}

// langCode tags the message with its detected ISO 639-1 language code.
// Informational only; visibility rules never look at it.
func langCode(text string) string {
	info := whatlanggo.Detect(text)
	return info.Lang.Iso6391()
}
