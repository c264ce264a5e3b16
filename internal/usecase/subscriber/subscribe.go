package subscriber

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

type Recorder interface {
	Subscription(created bool)
}

type SubscribeInput struct {
	Email    string
	Interest string
}

// SubscribeUseCase сохраняет адрес из формы подписки.
type SubscribeUseCase struct {
	repo      repository.SubscriberRepository
	publisher repository.EventPublisher
	recorder  Recorder
	log       *logrus.Entry
}

func NewSubscribeUseCase(repo repository.SubscriberRepository, publisher repository.EventPublisher, recorder Recorder) *SubscribeUseCase {
	return &SubscribeUseCase{
		repo:      repo,
		publisher: publisher,
		recorder:  recorder,
		log:       logger.Component("subscriber"),
	}
}

// Execute возвращает true, если адрес новый. Повторная подписка не ошибка.
func (uc *SubscribeUseCase) Execute(ctx context.Context, input SubscribeInput) (bool, error) {
	sub, err := entity.NewSubscriber(input.Email, input.Interest)
	if err != nil {
		return false, err
	}

	created, err := uc.repo.Add(ctx, sub)
	if err != nil {
		return false, err
	}

	if uc.recorder != nil {
		uc.recorder.Subscription(created)
	}
	if !created {
		return false, nil
	}

	uc.log.WithField("interest", sub.Interest).Info("Новый подписчик")
	if uc.publisher != nil {
		// Адрес в событие не попадает, панели видят только факт подписки.
		payload := map[string]string{"interest": sub.Interest}
		if err := uc.publisher.Publish(repository.EventSubscriberCreated, payload); err != nil {
			uc.log.WithError(err).Warn("Не удалось разослать событие подписки")
		}
	}
	return true, nil
}
