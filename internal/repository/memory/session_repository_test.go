package memory

import (
	"testing"
	"time"

	"sheets-editor-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	session := store.NewEditSession(uuid.New(), uuid.New(), "Sheet", nil)

	repo.Save(session)
	got, ok := repo.Get(session.ID)
	require.True(t, ok)
	assert.Same(t, session, got)
	assert.Equal(t, 1, repo.Count())

	repo.Delete(session.ID)
	_, ok = repo.Get(session.ID)
	assert.False(t, ok)
}

func TestSessionRepositoryExpires(t *testing.T) {
	repo := NewSessionRepository(20 * time.Millisecond)
	session := store.NewEditSession(uuid.New(), uuid.New(), "", nil)
	repo.Save(session)

	time.Sleep(40 * time.Millisecond)

	_, ok := repo.Get(session.ID)
	assert.False(t, ok)
}

func TestSessionRepositoryOnEvicted(t *testing.T) {
	repo := NewSessionRepository(time.Minute)
	evicted := make(chan string, 1)
	repo.OnEvicted(func(s *store.EditSession) { evicted <- s.ID })

	session := store.NewEditSession(uuid.New(), uuid.New(), "", nil)
	repo.Save(session)
	repo.Delete(session.ID)

	select {
	case id := <-evicted:
		assert.Equal(t, session.ID, id)
	case <-time.After(time.Second):
		t.Fatal("eviction callback not called")
	}
}
