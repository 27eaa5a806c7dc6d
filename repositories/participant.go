//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"

	"chatroom/domain/chat"
	"chatroom/errors"
)

const participantPrefix = "participant:"

type IParticipantRepository interface {
	Create(p chat.Participant) error
	Get(name string) (chat.Participant, error)
	All() ([]chat.Participant, error)
	Touch(name string, at time.Time) error
	Delete(name string) error
}

type ParticipantRepository struct {
	db *badger.DB
}

func NewParticipantRepository(db *badger.DB) IParticipantRepository {
	return &ParticipantRepository{db: db}
}

// diskParticipant is the stored form. Timestamps are kept as unix
// nanoseconds to stay clock-format agnostic on disk.
type diskParticipant struct {
	Name       string `cbor:"1,keyasint"`
	LastSeenAt int64  `cbor:"2,keyasint"`
}

// Create persists the participant under its name key. The existence check
// and the write share one transaction, so the name-uniqueness invariant
// holds even for two concurrent registrations of the same name: the loser
// either sees the key or fails its commit with a conflict, and both cases
// surface as a taken name.
func (r ParticipantRepository) Create(p chat.Participant) error {
	data, err := cbor.Marshal(fromParticipant(p))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key := []byte(participantPrefix + p.Name)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrNameTaken
		} else if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.ErrNameTaken
	}
	return err
}

func (r ParticipantRepository) Get(name string) (chat.Participant, error) {
	var disk diskParticipant
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(participantPrefix + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Participant{}, errors.ErrParticipantNotFound
	}
	if err != nil {
		return chat.Participant{}, err
	}
	return toParticipant(disk), nil
}

func (r ParticipantRepository) All() ([]chat.Participant, error) {
	var participants []chat.Participant
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(participantPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskParticipant
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			participants = append(participants, toParticipant(disk))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// Touch refreshes the participant's last-activity timestamp.
func (r ParticipantRepository) Touch(name string, at time.Time) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := []byte(participantPrefix + name)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		data, err := cbor.Marshal(diskParticipant{Name: name, LastSeenAt: at.UnixNano()})
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrParticipantNotFound
	}
	return err
}

func (r ParticipantRepository) Delete(name string) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key := []byte(participantPrefix + name)
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrParticipantNotFound
	}
	return err
}

func fromParticipant(p chat.Participant) diskParticipant {
	return diskParticipant{Name: p.Name, LastSeenAt: p.LastSeenAt.UnixNano()}
}

func toParticipant(d diskParticipant) chat.Participant {
	return chat.Participant{Name: d.Name, LastSeenAt: time.Unix(0, d.LastSeenAt).UTC()}
}
