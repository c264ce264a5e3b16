package repository

import (
	"context"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

// SubscriberRepository хранит адреса подписчиков.
// Add возвращает false, если адрес уже был сохранён ранее.
type SubscriberRepository interface {
	Add(ctx context.Context, subscriber *entity.Subscriber) (bool, error)
	List(ctx context.Context) ([]*entity.Subscriber, error)
}
