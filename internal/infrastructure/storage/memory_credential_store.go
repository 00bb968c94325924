package storage

import (
	"context"
	"sync"

	"pcb-inspector/internal/domain/port"
)

// MemoryCredentialStore учётные записи живут только пока жив процесс
type MemoryCredentialStore struct {
	mu     sync.RWMutex
	hashes map[string]string
	cost   int
}

// NewMemoryCredentialStore создаёт хранилище с заданной стоимостью bcrypt
func NewMemoryCredentialStore(cost int) *MemoryCredentialStore {
	return &MemoryCredentialStore{
		hashes: make(map[string]string),
		cost:   cost,
	}
}

// Verify проверяет пару логин/пароль
func (s *MemoryCredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	hash, ok := s.hashes[username]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return checkPassword(hash, password)
}

// Register создаёт учётную запись
func (s *MemoryCredentialStore) Register(ctx context.Context, username, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	_, exists := s.hashes[username]
	s.mu.RUnlock()
	if exists {
		return port.ErrUserExists
	}

	// bcrypt медленный, считаем вне блокировки
	hash, err := hashPassword(password, s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hashes[username]; exists {
		return port.ErrUserExists
	}
	s.hashes[username] = hash
	return nil
}

// Проверка реализации интерфейса
var _ port.CredentialStore = (*MemoryCredentialStore)(nil)
