package port

import (
	"context"
	"errors"
)

// ErrUserExists логин уже занят
var ErrUserExists = errors.New("username already exists")

// CredentialStore интерфейс хранилища учётных записей
type CredentialStore interface {
	// Verify проверяет пару логин/пароль
	Verify(ctx context.Context, username, password string) (bool, error)

	// Register создаёт учётную запись, для занятого логина ErrUserExists
	Register(ctx context.Context, username, password string) error
}
