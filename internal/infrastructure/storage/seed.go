package storage

import (
	"context"
	"errors"

	"pcb-inspector/internal/domain/port"
)

// Account учётная запись для начального заполнения хранилища
type Account struct {
	Username string
	Password string
}

// DefaultAccounts две учётные записи, с которыми стартует сервис
func DefaultAccounts() []Account {
	return []Account{
		{Username: "testuser", Password: "password123"},
		{Username: "john.doe", Password: "securepass"},
	}
}

// Seed заполняет хранилище; существующие записи не трогает
func Seed(ctx context.Context, store port.CredentialStore, accounts []Account) error {
	for _, a := range accounts {
		err := store.Register(ctx, a.Username, a.Password)
		if err != nil && !errors.Is(err, port.ErrUserExists) {
			return err
		}
	}
	return nil
}
