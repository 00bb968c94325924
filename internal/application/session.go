package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pcb-inspector/internal/domain/entity"
	"pcb-inspector/internal/domain/port"
)

type SessionService struct {
	repo        port.SessionRepository
	credentials port.CredentialStore
}

func NewSessionService(repo port.SessionRepository, credentials port.CredentialStore) *SessionService {
	return &SessionService{repo: repo, credentials: credentials}
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*entity.Session, error) {
	return s.repo.Get(ctx, sessionID)
}

// Navigate применяет событие к сессии и сохраняет результат.
func (s *SessionService) Navigate(ctx context.Context, sessionID string, kind entity.EventKind) (*entity.Session, error) {
	return s.apply(ctx, sessionID, entity.Event{Kind: kind})
}

// SignUp регистрирует пользователя и переводит сессию на страницу входа.
func (s *SessionService) SignUp(ctx context.Context, sessionID, username, password string) (*entity.Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if err := s.openPage(ctx, sessionID, entity.PageSignUp, entity.EventOpenSignUp); err != nil {
		return nil, err
	}
	if err := s.credentials.Register(ctx, username, password); err != nil {
		if errors.Is(err, port.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register %q: %w", username, err)
	}
	return s.apply(ctx, sessionID, entity.Event{Kind: entity.EventSignedUp})
}

// LogIn проверяет учётные данные и открывает детектор.
func (s *SessionService) LogIn(ctx context.Context, sessionID, username, password string) (*entity.Session, error) {
	if err := s.openPage(ctx, sessionID, entity.PageLogIn, entity.EventOpenLogIn); err != nil {
		return nil, err
	}
	ok, err := s.credentials.Verify(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("verify %q: %w", username, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.apply(ctx, sessionID, entity.Event{Kind: entity.EventLoggedIn, Username: username})
}

// LogOut возвращает сессию на главную страницу. Вышедшая сессия
// не отличается от новой, поэтому из хранилища она удаляется.
func (s *SessionService) LogOut(ctx context.Context, sessionID string) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next := *session
	next.Page = entity.PageHome
	if session.LoggedIn {
		if next, err = entity.Transition(*session, entity.Event{Kind: entity.EventLoggedOut}); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	return &next, nil
}

// openPage отправка формы подразумевает, что страница формы открыта.
func (s *SessionService) openPage(ctx context.Context, sessionID string, page entity.Page, via entity.EventKind) error {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Effective() == page {
		return nil
	}
	if session.Effective() != entity.PageHome {
		if _, err := s.apply(ctx, sessionID, entity.Event{Kind: entity.EventOpenHome}); err != nil {
			return err
		}
	}
	_, err = s.apply(ctx, sessionID, entity.Event{Kind: via})
	return err
}

func (s *SessionService) apply(ctx context.Context, sessionID string, ev entity.Event) (*entity.Session, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := entity.Transition(*session, ev)
	if err != nil {
		return nil, err
	}

	*session = next
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
