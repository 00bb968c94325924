package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/infrastructure/remediation"
	"pcb-inspector/internal/infrastructure/storage"
)

func TestNewInMemory(t *testing.T) {
	table := remediation.Default()
	c := NewInMemory(storage.NewMemoryCredentialStore(bcrypt.MinCost), nil, table)

	require.NotNil(t, c.SessionService)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.Describer)
	require.Same(t, table, c.Table)
	require.Same(t, table, c.InspectionService.Table())
	require.False(t, c.InspectionService.Available())

	s, err := c.SessionService.Get(context.Background(), "chat-1")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, s.Page)
}
