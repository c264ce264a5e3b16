package grant

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
)

// ListCacheTTL — время жизни закэшированного списка грантов.
const ListCacheTTL = 30 * time.Second

// ListCache кэширует список грантов между мутациями.
type ListCache interface {
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) (interface{}, error)) (interface{}, error)
	InvalidateGrants()
}

type Recorder interface {
	GrantMutation(action string)
}

// GrantEvent — полезная нагрузка событий трекера.
type GrantEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status,omitempty"`
	Previous string `json:"previous_status,omitempty"`
}

// deps — общие зависимости операций трекера.
type deps struct {
	repo      repository.GrantRepository
	cache     ListCache
	publisher repository.EventPublisher
	recorder  Recorder
	log       *logrus.Entry
}

func newDeps(repo repository.GrantRepository, cache ListCache, publisher repository.EventPublisher, recorder Recorder) deps {
	return deps{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		recorder:  recorder,
		log:       logger.Component("grant"),
	}
}

// afterMutation сбрасывает кэш, пишет метрику и рассылает событие.
func (d deps) afterMutation(action, event string, payload GrantEvent) {
	if d.cache != nil {
		d.cache.InvalidateGrants()
	}
	if d.recorder != nil {
		d.recorder.GrantMutation(action)
	}
	if d.publisher != nil {
		if err := d.publisher.Publish(event, payload); err != nil {
			d.log.WithError(err).WithField("event", event).Warn("Не удалось разослать событие")
		}
	}
}

func eventFor(g *entity.GrantRecord) GrantEvent {
	return GrantEvent{ID: g.ID.String(), Title: g.Title, Status: g.Status.String()}
}
