package repositories

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vijendrapratap/Resume-update-and-interview-prep/internal/interview"
)

func newState(t *testing.T) *SessionState {
	t.Helper()

	plan, err := interview.NewQuestionPlan([]interview.Question{
		{Topic: "intro", Prompt: "Tell me about yourself."},
	})
	require.NoError(t, err)

	session, err := interview.Start(plan)
	require.NoError(t, err)

	return &SessionState{
		Session:  session,
		ResumeID: uuid.New(),
	}
}

func TestMemoryStoreCreateAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	state := newState(t)

	require.NoError(t, store.Create(state))

	got, err := store.Get(state.Session.ID)
	require.NoError(t, err)
	// The store hands out the live pointer, not a copy
	assert.Same(t, state, got)

	assert.Error(t, store.Create(state), "duplicate create must fail")
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemorySessionStore()

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemorySessionStore()
	state := newState(t)
	require.NoError(t, store.Create(state))

	require.NoError(t, store.Delete(state.Session.ID))
	_, err := store.Get(state.Session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, store.Delete(state.Session.ID), ErrSessionNotFound)
}

func TestMemoryStoreListOrdered(t *testing.T) {
	store := NewMemorySessionStore()

	first := newState(t)
	first.Session.StartedAt = time.Now().Add(-time.Hour)
	second := newState(t)

	require.NoError(t, store.Create(second))
	require.NoError(t, store.Create(first))

	states, err := store.List()
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, first.Session.ID, states[0].Session.ID)
	assert.Equal(t, second.Session.ID, states[1].Session.ID)
}

func TestSessionStateConcurrentAccess(t *testing.T) {
	state := newState(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state.AppendResponse("an answer")
			_ = state.Responses()
			_ = state.Ended()
		}()
	}
	wg.Wait()

	assert.Len(t, state.Responses(), 8)
}

func TestSessionStateMarkEndedOnce(t *testing.T) {
	state := newState(t)

	require.False(t, state.Ended())
	assert.True(t, state.MarkEnded())
	assert.False(t, state.MarkEnded(), "second end must report already ended")
	assert.True(t, state.Ended())
}
