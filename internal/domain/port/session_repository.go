package port

import (
	"context"

	"pcb-inspector/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий
type SessionRepository interface {
	// Get возвращает сессию по ID. Ненайденная сессия возвращается
	// новой, на главной странице, и сохраняется только через Save
	Get(ctx context.Context, sessionID string) (*entity.Session, error)

	// Save сохраняет состояние сессии
	Save(ctx context.Context, session *entity.Session) error

	// Delete удаляет сессию
	Delete(ctx context.Context, sessionID string) error
}
