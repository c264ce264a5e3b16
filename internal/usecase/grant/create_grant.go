package grant

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
)

type CreateGrantUseCase struct {
	deps
}

func NewCreateGrantUseCase(repo repository.GrantRepository, cache ListCache, publisher repository.EventPublisher, recorder Recorder) *CreateGrantUseCase {
	return &CreateGrantUseCase{deps: newDeps(repo, cache, publisher, recorder)}
}

func (uc *CreateGrantUseCase) Execute(ctx context.Context, input entity.NewGrantInput) (*entity.GrantRecord, error) {
	grant, err := entity.NewGrantRecord(input)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, grant); err != nil {
		return nil, err
	}

	uc.log.WithFields(logrus.Fields{"grant_id": grant.ID, "title": grant.Title}).Info("Грант добавлен в трекер")
	uc.afterMutation("create", repository.EventGrantCreated, eventFor(grant))
	return grant, nil
}
