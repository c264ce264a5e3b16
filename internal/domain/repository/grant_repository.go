package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

// GrantRepository хранит строки трекера грантов.
type GrantRepository interface {
	Create(ctx context.Context, grant *entity.GrantRecord) error
	List(ctx context.Context) ([]*entity.GrantRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.GrantRecord, error)
	Update(ctx context.Context, grant *entity.GrantRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}
