package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pcb-inspector/internal/domain/port"
)

func TestMemoryCredentialStore_RegisterAndVerify(t *testing.T) {
	store := NewMemoryCredentialStore(bcrypt.MinCost)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "alice", "s3cret"))

	ok, err := store.Verify(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Verify(ctx, "alice", "wrong")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = store.Verify(ctx, "bob", "s3cret")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCredentialStore_DuplicateUsername(t *testing.T) {
	store := NewMemoryCredentialStore(bcrypt.MinCost)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "alice", "one"))
	require.ErrorIs(t, store.Register(ctx, "alice", "two"), port.ErrUserExists)

	ok, err := store.Verify(ctx, "alice", "one")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryCredentialStore_ConcurrentRegisterOneWins(t *testing.T) {
	store := NewMemoryCredentialStore(bcrypt.MinCost)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Register(ctx, "race", "pw")
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, port.ErrUserExists)
	}
	require.Equal(t, 1, succeeded)
}

func TestSeed_DefaultAccountsAndIdempotent(t *testing.T) {
	store := NewMemoryCredentialStore(bcrypt.MinCost)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store, DefaultAccounts()))
	require.NoError(t, Seed(ctx, store, DefaultAccounts()))

	ok, err := store.Verify(ctx, "testuser", "password123")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Verify(ctx, "john.doe", "securepass")
	require.NoError(t, err)
	require.True(t, ok)
}
