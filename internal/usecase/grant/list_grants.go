package grant

import (
	"context"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/service"
)

type ListGrantsUseCase struct {
	repo  repository.GrantRepository
	cache ListCache
}

func NewListGrantsUseCase(repo repository.GrantRepository, cache ListCache) *ListGrantsUseCase {
	return &ListGrantsUseCase{repo: repo, cache: cache}
}

// Execute возвращает гранты в порядке хранения.
func (uc *ListGrantsUseCase) Execute(ctx context.Context) ([]*entity.GrantRecord, error) {
	if uc.cache == nil {
		return uc.repo.List(ctx)
	}

	value, err := uc.cache.GetOrSet(ctx, service.GrantListCacheKey(), ListCacheTTL, func(ctx context.Context) (interface{}, error) {
		return uc.repo.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]*entity.GrantRecord), nil
}
