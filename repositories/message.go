//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"chatroom/domain/chat"
	"chatroom/errors"
)

const (
	messagePrefix      = "msg:"
	messageIndexPrefix = "msgid:"
)

type IMessageRepository interface {
	Store(m chat.Message) (uuid.UUID, error)
	All() ([]chat.Message, error)
	Get(id uuid.UUID) (chat.Message, error)
	Update(m chat.Message) error
	Delete(id uuid.UUID) error
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) IMessageRepository {
	return &MessageRepository{db: db}
}

type diskMessage struct {
	ID     string `cbor:"1,keyasint"`
	From   string `cbor:"2,keyasint"`
	To     string `cbor:"3,keyasint"`
	Text   string `cbor:"4,keyasint"`
	Kind   string `cbor:"5,keyasint"`
	SentAt string `cbor:"6,keyasint"`
	Lang   string `cbor:"7,keyasint"`
	At     int64  `cbor:"8,keyasint"`
}

// primaryKey is formatted as "msg:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent collisions if two messages arrive at the same nanosecond.
func primaryKey(at time.Time, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s", messagePrefix, at.UnixNano(), id))
}

func indexKey(id uuid.UUID) []byte {
	return []byte(messageIndexPrefix + id.String())
}

// Store assigns the message id and persists the record together with an
// id-to-primary-key index entry used by Get, Update and Delete.
func (r MessageRepository) Store(m chat.Message) (uuid.UUID, error) {
	m.ID = uuid.New()
	data, err := cbor.Marshal(fromMessage(m))
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal failed: %w", err)
	}
	key := primaryKey(m.At, m.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(indexKey(m.ID), key)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

// All returns every message in chronological insertion order. The padded
// timestamp in the key makes the forward scan come out sorted by time.
func (r MessageRepository) All() ([]chat.Message, error) {
	var messages []chat.Message
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(messagePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var disk diskMessage
			err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &disk)
			})
			if err != nil {
				return err
			}
			m, err := toMessage(disk)
			if err != nil {
				return err
			}
			messages = append(messages, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r MessageRepository) Get(id uuid.UUID) (chat.Message, error) {
	var disk diskMessage
	err := r.db.View(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &disk)
		})
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return chat.Message{}, err
	}
	return toMessage(disk)
}

// Update rewrites the record under its original primary key, so an edited
// message keeps its position in storage order.
func (r MessageRepository) Update(m chat.Message) error {
	data, err := cbor.Marshal(fromMessage(m))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		key, err := resolve(txn, m.ID)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrMessageNotFound
	}
	return err
}

func (r MessageRepository) Delete(id uuid.UUID) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(indexKey(id))
	})
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrMessageNotFound
	}
	return err
}

// resolve maps a message id to its primary key via the index entry.
func resolve(txn *badger.Txn, id uuid.UUID) ([]byte, error) {
	item, err := txn.Get(indexKey(id))
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func fromMessage(m chat.Message) diskMessage {
	return diskMessage{
		ID:     m.ID.String(),
		From:   m.From,
		To:     m.To,
		Text:   m.Text,
		Kind:   string(m.Kind),
		SentAt: m.SentAt,
		Lang:   m.Lang,
		At:     m.At.UnixNano(),
	}
}

func toMessage(d diskMessage) (chat.Message, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return chat.Message{}, err
	}
	return chat.Message{
		ID:     id,
		From:   d.From,
		To:     d.To,
		Text:   d.Text,
		Kind:   chat.Kind(d.Kind),
		SentAt: d.SentAt,
		Lang:   d.Lang,
		At:     time.Unix(0, d.At).UTC(),
	}, nil
}
