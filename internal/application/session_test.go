package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
	"pcb-inspector/internal/infrastructure/storage"
)

func newSessionService(t *testing.T) *SessionService {
	t.Helper()
	creds := storage.NewMemoryCredentialStore(bcrypt.MinCost)
	require.NoError(t, storage.Seed(context.Background(), creds, storage.DefaultAccounts()))
	return NewSessionService(storage.NewMemorySessionRepository(), creds)
}

func TestSessionService_NavigateAndReject(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	s, err := svc.Navigate(ctx, "1", entity.EventOpenLogIn)
	require.NoError(t, err)
	require.Equal(t, entity.PageLogIn, s.Page)

	_, err = svc.Navigate(ctx, "1", entity.EventOpenDetector)
	require.ErrorIs(t, err, entity.ErrTransitionNotAllowed)

	s, err = svc.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.PageLogIn, s.Page)
}

func TestSessionService_LogInSeededAccount(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	s, err := svc.LogIn(ctx, "1", "testuser", "password123")
	require.NoError(t, err)
	require.Equal(t, entity.PagePrediction, s.Page)
	require.True(t, s.LoggedIn)
	require.Equal(t, "testuser", s.Username)

	s, err = svc.LogOut(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, s.Page)
	require.False(t, s.LoggedIn)
}

func TestSessionService_LogInWrongPassword(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	_, err := svc.LogIn(ctx, "1", "testuser", "nope")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	s, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.PageLogIn, s.Page)
	require.False(t, s.LoggedIn)
}

func TestSessionService_SignUpThenLogIn(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	s, err := svc.SignUp(ctx, "7", "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, entity.PageLogIn, s.Page)
	require.False(t, s.LoggedIn)

	s, err = svc.LogIn(ctx, "7", "alice", "pw")
	require.NoError(t, err)
	require.True(t, s.LoggedIn)
}

func TestSessionService_SignUpErrors(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "1", "", "pw")
	require.ErrorIs(t, err, ErrEmptyCredentials)

	_, err = svc.SignUp(ctx, "1", "bob", "")
	require.ErrorIs(t, err, ErrEmptyCredentials)

	_, err = svc.SignUp(ctx, "1", "john.doe", "other")
	require.ErrorIs(t, err, port.ErrUserExists)

	s, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.PageSignUp, s.Page)
}

func TestSessionService_LogInFromDetectorPage(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()

	_, err := svc.LogIn(ctx, "1", "testuser", "password123")
	require.NoError(t, err)

	// Повторный вход под другим пользователем проходит через страницу входа
	s, err := svc.LogIn(ctx, "1", "john.doe", "securepass")
	require.NoError(t, err)
	require.Equal(t, "john.doe", s.Username)
	require.Equal(t, entity.PagePrediction, s.Page)
}

func TestSessionService_LogOutEvictsSession(t *testing.T) {
	creds := storage.NewMemoryCredentialStore(bcrypt.MinCost)
	require.NoError(t, storage.Seed(context.Background(), creds, storage.DefaultAccounts()))
	repo := &countingRepo{SessionRepository: storage.NewMemorySessionRepository()}
	svc := NewSessionService(repo, creds)
	ctx := context.Background()

	_, err := svc.LogIn(ctx, "1", "testuser", "password123")
	require.NoError(t, err)

	s, err := svc.LogOut(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, s.Page)
	require.False(t, s.LoggedIn)
	require.Empty(t, s.Username)
	require.Equal(t, []string{"1"}, repo.deleted)

	// без входа выход тоже оставляет главную страницу
	s, err = svc.LogOut(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, entity.PageHome, s.Page)

	s, err = svc.Get(ctx, "1")
	require.NoError(t, err)
	require.False(t, s.LoggedIn)
}

func TestSessionService_SignUpLongPassword(t *testing.T) {
	svc := newSessionService(t)
	ctx := context.Background()
	password := strings.Repeat("p", 73)

	_, err := svc.SignUp(ctx, "1", "alice", password)
	require.NoError(t, err)

	s, err := svc.LogIn(ctx, "1", "alice", password)
	require.NoError(t, err)
	require.True(t, s.LoggedIn)

	_, err = svc.LogIn(ctx, "1", "alice", strings.Repeat("p", 72)+"q")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

type countingRepo struct {
	port.SessionRepository
	deleted []string
}

func (r *countingRepo) Delete(ctx context.Context, sessionID string) error {
	r.deleted = append(r.deleted, sessionID)
	return r.SessionRepository.Delete(ctx, sessionID)
}
