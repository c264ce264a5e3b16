package grant

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
)

type UpdateGrantStatusUseCase struct {
	deps
}

func NewUpdateGrantStatusUseCase(repo repository.GrantRepository, cache ListCache, publisher repository.EventPublisher, recorder Recorder) *UpdateGrantStatusUseCase {
	return &UpdateGrantStatusUseCase{deps: newDeps(repo, cache, publisher, recorder)}
}

// Execute переводит грант в новый статус. Любой статус допустим из любого.
func (uc *UpdateGrantStatusUseCase) Execute(ctx context.Context, id uuid.UUID, status string) (*entity.GrantRecord, error) {
	grant, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := grant.Status
	if err := grant.ChangeStatus(status); err != nil {
		return nil, err
	}
	if grant.Status == previous {
		return grant, nil
	}

	if err := uc.repo.Update(ctx, grant); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{
		"grant_id": grant.ID,
		"from":     previous,
		"to":       grant.Status,
	}).Info("Статус гранта изменён")

	event := eventFor(grant)
	event.Previous = previous.String()
	uc.afterMutation("status", repository.EventGrantStatusChanged, event)
	return grant, nil
}
