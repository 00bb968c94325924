package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPassword_LongerThanBcryptLimit(t *testing.T) {
	long := strings.Repeat("p", 73)

	hash, err := hashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := checkPassword(hash, long)
	require.NoError(t, err)
	require.True(t, ok)

	// отличие после 72-го байта тоже учитывается
	ok, err = checkPassword(hash, strings.Repeat("p", 72)+"q")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPassword_InvalidCostFallsBackToDefault(t *testing.T) {
	hash, err := hashPassword("secret", 1000)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.DefaultCost, cost)
}

func TestCheckPassword_CorruptHash(t *testing.T) {
	_, err := checkPassword("not-a-hash", "secret")
	require.Error(t, err)
}
