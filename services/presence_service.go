package services

import (
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"chatroom/domain/chat"
	"chatroom/repositories"
	"chatroom/validation"
)

type IPresenceService interface {
	Register(name string) (chat.Participant, error)
	Heartbeat(name string) error
	ListActive() ([]chat.Participant, error)
	Sweep(now time.Time, threshold time.Duration)
}

type PresenceService struct {
	participants repositories.IParticipantRepository
	messages     repositories.IMessageRepository
	log          *slog.Logger
	now          func() time.Time
}

func NewPresenceService(
	participants repositories.IParticipantRepository,
	messages repositories.IMessageRepository,
	log *slog.Logger,
) *PresenceService {
	return &PresenceService{
		participants: participants,
		messages:     messages,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the participant and announces the join to the room.
// The participant insert must succeed before the notice is emitted: a join
// message is never written for a name that failed to register. A notice
// failure after a successful insert is returned to the caller and logged;
// the insert is not rolled back.
func (s *PresenceService) Register(name string) (chat.Participant, error) {
	name = validation.Sanitize(name)
	if err := validation.ValidateParticipant(validation.ParticipantRequest{Name: name}); err != nil {
		return chat.Participant{}, err
	}

	p := chat.Participant{Name: name, LastSeenAt: s.now()}
	if err := s.participants.Create(p); err != nil {
		return chat.Participant{}, err
	}

	if _, err := s.messages.Store(chat.StatusMessage(name, chat.JoinedText, s.now())); err != nil {
		s.log.Error("Participant registered but join notice failed",
			"name", name, "error", err)
		return chat.Participant{}, err
	}
	return p, nil
}

// Heartbeat refreshes the participant's last-activity timestamp. No message
// is emitted.
func (s *PresenceService) Heartbeat(name string) error {
	return s.participants.Touch(name, s.now())
}

func (s *PresenceService) ListActive() ([]chat.Participant, error) {
	return s.participants.All()
}

// Sweep evicts every participant inactive for longer than the threshold.
// Each expired participant is an independent unit of work: the leave notice
// is emitted before the record is deleted, a failure on one participant
// never blocks the others, and failures are logged rather than propagated
// (the sweep runs on a timer, there is no caller to answer to).
func (s *PresenceService) Sweep(now time.Time, threshold time.Duration) {
	participants, err := s.participants.All()
	if err != nil {
		s.log.Error("Sweep could not list participants", "error", err)
		return
	}

	expired := lo.Filter(participants, func(p chat.Participant, _ int) bool {
		return p.Stale(now, threshold)
	})
	if len(expired) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, p := range expired {
		wg.Add(1)
		go func(p chat.Participant) {
			defer wg.Done()
			s.evict(p, now)
		}(p)
	}
	wg.Wait()
}

// evict announces the departure, then deletes the record. If the notice
// cannot be stored the participant is left in place and picked up again on
// the next tick, so the leave notice is never silently lost.
func (s *PresenceService) evict(p chat.Participant, now time.Time) {
	if _, err := s.messages.Store(chat.StatusMessage(p.Name, chat.LeftText, now)); err != nil {
		s.log.Error("Leave notice failed, keeping participant for next tick",
			"name", p.Name, "error", err)
		return
	}
	if err := s.participants.Delete(p.Name); err != nil {
		s.log.Error("Could not delete expired participant",
			"name", p.Name, "error", err)
		return
	}
	s.log.Info("Participant expired", "name", p.Name, "lastSeenAt", p.LastSeenAt)
}
