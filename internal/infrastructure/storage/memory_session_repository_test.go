package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"pcb-inspector/internal/domain/entity"
)

func TestMemorySessionRepository_GetReturnsHomeSessionWithoutStoring(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		s, err := repo.Get(ctx, fmt.Sprintf("token-%d", i))
		require.NoError(t, err)
		require.Equal(t, entity.PageHome, s.Page)
		require.False(t, s.LoggedIn)
	}
	require.Zero(t, repo.size())
}

func TestMemorySessionRepository_SaveAndDelete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	s, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	s.Page = entity.PageLogIn

	// Изменения не видны до Save
	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, again.Page)

	require.NoError(t, repo.Save(ctx, s))
	require.Equal(t, 1, repo.size())
	again, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, entity.PageLogIn, again.Page)

	require.NoError(t, repo.Delete(ctx, "a"))
	require.Zero(t, repo.size())

	again, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, again.Page)
}

func TestMemorySessionRepository_CancelledContext(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, "a")
	require.ErrorIs(t, err, context.Canceled)
}
