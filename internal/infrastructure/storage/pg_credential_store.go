package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pcb-inspector/internal/domain/port"
)

// PGCredentialStore учётные записи в PostgreSQL
type PGCredentialStore struct {
	DB   *sql.DB
	Cost int
}

// Verify проверяет пару логин/пароль
func (s *PGCredentialStore) Verify(ctx context.Context, username, password string) (bool, error) {
	const query = `SELECT password_hash FROM accounts WHERE username = $1 LIMIT 1`

	var hash string
	err := s.DB.QueryRowContext(ctx, query, username).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select account: %w", err)
	}
	return checkPassword(hash, password)
}

// Register создаёт учётную запись
func (s *PGCredentialStore) Register(ctx context.Context, username, password string) error {
	const query = `
INSERT INTO accounts (username, password_hash, created_at)
VALUES ($1, $2, now())
ON CONFLICT (username) DO NOTHING`

	hash, err := hashPassword(password, s.Cost)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, query, username, hash)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if n == 0 {
		return port.ErrUserExists
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.CredentialStore = (*PGCredentialStore)(nil)
