package zklogin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession(t *testing.T) {
	session, err := NewSession("google", 10)
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "google", session.Provider)
	assert.Equal(t, uint64(12), session.MaxEpoch)
	assert.NotEmpty(t, session.Nonce)
	assert.False(t, session.Consumed())

	// nonce 可由会话材料重算
	nonce, err := ComputeNonce(session.KeyPair.PublicKey, session.MaxEpoch, session.Randomness)
	require.NoError(t, err)
	assert.Equal(t, session.Nonce, nonce)
}

func TestSessionConsumeOnce(t *testing.T) {
	session, err := NewSession("google", 10)
	require.NoError(t, err)

	require.NoError(t, session.Consume())
	assert.True(t, session.Consumed())

	assert.ErrorIs(t, session.Consume(), ErrSessionConsumed)
}

func TestStorePutGetDelete(t *testing.T) {
	store := NewStore(time.Minute)

	session, err := NewSession("google", 10)
	require.NoError(t, err)

	store.Put(session)
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	store.Delete(session.ID)
	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(50 * time.Millisecond)

	session, err := NewSession("google", 10)
	require.NoError(t, err)
	session.CreatedAt = time.Now().Add(-time.Second)

	store.Put(session)

	_, err = store.Get(session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
