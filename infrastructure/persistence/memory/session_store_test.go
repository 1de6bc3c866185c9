package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

func TestSessionStore_CreateAndStatus(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, session.ID, session.FamilyID)
	assert.Equal(t, entity.SessionActive, session.Status)

	status, err := store.Status(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionActive, status)

	_, err = store.Status(ctx, "missing")
	assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
}

func TestSessionStore_Rotate(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	successor, err := store.Rotate(ctx, session.ID)
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, successor.ID)
	assert.Equal(t, session.FamilyID, successor.FamilyID)
	assert.Equal(t, "u1", successor.UserID)

	status, err := store.Status(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionRotated, status)

	// rotated is terminal
	_, err = store.Rotate(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionRotated)
	err = store.Revoke(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionRotated)
}

func TestSessionStore_Revoke(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, store.Revoke(ctx, session.ID))

	// revoked is terminal, and double revoke is reported
	err = store.Revoke(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionRevoked)
	_, err = store.Rotate(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionRevoked)

	assert.ErrorIs(t, store.Revoke(ctx, "missing"), outbound.ErrSessionNotFound)
}

func TestSessionStore_ExpiredSessionsAreInvalid(t *testing.T) {
	store := NewSessionStore(-time.Minute)
	ctx := context.Background()

	session, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	_, err = store.Rotate(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionExpired)

	// the expired row was reaped
	_, err = store.Status(ctx, session.ID)
	assert.ErrorIs(t, err, outbound.ErrSessionNotFound)
}

func TestSessionStore_RevokeAllByUser(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	s1, _ := store.Create(ctx, "u1")
	s2, _ := store.Create(ctx, "u1")
	other, _ := store.Create(ctx, "u2")

	count, err := store.RevokeAllByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{s1.ID, s2.ID} {
		status, err := store.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.SessionRevoked, status)
	}
	status, err := store.Status(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionActive, status)
}

func TestSessionStore_RevokeFamily(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	root, _ := store.Create(ctx, "u1")
	successor, err := store.Rotate(ctx, root.ID)
	require.NoError(t, err)
	unrelated, _ := store.Create(ctx, "u1")

	// the lineage is resolvable from the rotated root
	count, err := store.RevokeFamily(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count) // only the live descendant was still active

	status, err := store.Status(ctx, successor.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionRevoked, status)

	status, err = store.Status(ctx, unrelated.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SessionActive, status)
}

// Two concurrent refreshes racing on the same stale token must produce exactly
// one winner; everyone else observes the terminal rotated error.
func TestSessionStore_ConcurrentRotateSingleWinner(t *testing.T) {
	store := NewSessionStore(time.Hour)
	ctx := context.Background()

	session, err := store.Create(ctx, "u1")
	require.NoError(t, err)

	const workers = 32
	var wg sync.WaitGroup
	winners := make(chan *entity.Session, workers)
	losers := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			successor, err := store.Rotate(ctx, session.ID)
			if err != nil {
				losers <- err
				return
			}
			winners <- successor
		}()
	}
	wg.Wait()
	close(winners)
	close(losers)

	assert.Len(t, winners, 1)
	assert.Len(t, losers, workers-1)
	for err := range losers {
		assert.ErrorIs(t, err, outbound.ErrSessionRotated)
	}
}
