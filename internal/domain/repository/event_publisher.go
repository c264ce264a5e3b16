package repository

// Имена событий, рассылаемых подключённым панелям.
const (
	EventGrantCreated       = "grant.created"
	EventGrantStatusChanged = "grant.status_changed"
	EventGrantDeleted       = "grant.deleted"
	EventSubscriberCreated  = "subscriber.created"
)

// EventPublisher рассылает доменные события. Ошибка публикации не
// отменяет уже выполненную операцию.
type EventPublisher interface {
	Publish(event string, data any) error
}
