package repositories

import (
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"chatroom/domain/chat"
	"chatroom/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Get_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	at := time.Now().UTC()
	err := repository.Create(chat.Participant{Name: "Ana", LastSeenAt: at})
	req.NoError(err)

	fetched, err := repository.Get("Ana")
	req.NoError(err)
	req.Equal("Ana", fetched.Name)
	req.Equal(at.UnixNano(), fetched.LastSeenAt.UnixNano())
}

func Test_Create_Duplicate_Name_Is_Rejected(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	p := chat.Participant{Name: "Ana", LastSeenAt: time.Now().UTC()}
	req.NoError(repository.Create(p))

	err := repository.Create(p)
	req.ErrorIs(err, errors.ErrNameTaken)

	// Exactly one record survives.
	all, err := repository.All()
	req.NoError(err)
	req.Len(all, 1)
}

func Test_Create_Concurrent_Duplicates_Yield_One_Winner(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	p := chat.Participant{Name: "Ana", LastSeenAt: time.Now().UTC()}

	const attempts = 8
	results := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		go func() {
			start.Wait()
			results <- repository.Create(p)
		}()
	}
	start.Done()

	var created int
	for i := 0; i < attempts; i++ {
		err := <-results
		if err == nil {
			created++
			continue
		}
		// Every loser sees a taken name, whether it lost to the existence
		// check or to a commit conflict.
		req.ErrorIs(err, errors.ErrNameTaken)
	}
	req.Equal(1, created)

	all, err := repository.All()
	req.NoError(err)
	req.Len(all, 1)
}

func Test_Get_Unknown_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	_, err := repository.Get("ghost")
	req.ErrorIs(err, errors.ErrParticipantNotFound)
}

func Test_Touch_Refreshes_LastSeen(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	at := time.Now().UTC()
	req.NoError(repository.Create(chat.Participant{Name: "Bob", LastSeenAt: at}))

	later := at.Add(5 * time.Second)
	req.NoError(repository.Touch("Bob", later))

	fetched, err := repository.Get("Bob")
	req.NoError(err)
	req.Equal(later.UnixNano(), fetched.LastSeenAt.UnixNano())
}

func Test_Touch_Unknown_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	err := repository.Touch("ghost", time.Now().UTC())
	req.ErrorIs(err, errors.ErrParticipantNotFound)
}

func Test_Delete_Participant(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	req.NoError(repository.Create(chat.Participant{Name: "Carol", LastSeenAt: time.Now().UTC()}))
	req.NoError(repository.Delete("Carol"))

	_, err := repository.Get("Carol")
	req.ErrorIs(err, errors.ErrParticipantNotFound)

	req.ErrorIs(repository.Delete("Carol"), errors.ErrParticipantNotFound)
}

func Test_All_Participants(t *testing.T) {
	req := require.New(t)
	repository := NewParticipantRepository(openTestDB(t))

	at := time.Now().UTC()
	for _, name := range []string{"Ana", "Bob", "Carol"} {
		req.NoError(repository.Create(chat.Participant{Name: name, LastSeenAt: at}))
	}

	all, err := repository.All()
	req.NoError(err)
	req.Len(all, 3)
}
