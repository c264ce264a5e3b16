package grant

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
)

type DeleteGrantUseCase struct {
	deps
}

func NewDeleteGrantUseCase(repo repository.GrantRepository, cache ListCache, publisher repository.EventPublisher, recorder Recorder) *DeleteGrantUseCase {
	return &DeleteGrantUseCase{deps: newDeps(repo, cache, publisher, recorder)}
}

func (uc *DeleteGrantUseCase) Execute(ctx context.Context, id uuid.UUID) error {
	grant, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.log.WithField("grant_id", id).Info("Грант удалён из трекера")
	uc.afterMutation("delete", repository.EventGrantDeleted, GrantEvent{ID: id.String(), Title: grant.Title})
	return nil
}
