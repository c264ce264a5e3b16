package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// SubscriberPostgresRepository хранит подписчиков в таблице subscribers.
type SubscriberPostgresRepository struct {
	db *sqlx.DB
}

func NewSubscriberPostgresRepository(db *sqlx.DB) *SubscriberPostgresRepository {
	return &SubscriberPostgresRepository{db: db}
}

type subscriberRow struct {
	Email     string    `db:"email"`
	EmailKey  string    `db:"email_key"`
	Interest  string    `db:"interest"`
	CreatedAt time.Time `db:"created_at"`
}

// Add вставляет строку; повторный адрес не меняет таблицу и даёт false.
func (r *SubscriberPostgresRepository) Add(ctx context.Context, s *entity.Subscriber) (bool, error) {
	query := `
		INSERT INTO subscribers (email, email_key, interest, created_at)
		VALUES (:email, :email_key, :interest, :created_at)
		ON CONFLICT (email_key) DO NOTHING
	`
	res, err := r.db.NamedExecContext(ctx, query, subscriberRow{
		Email:     s.Email,
		EmailKey:  s.Key(),
		Interest:  s.Interest,
		CreatedAt: s.CreatedAt,
	})
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to save subscription")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to save subscription")
	}
	return n > 0, nil
}

func (r *SubscriberPostgresRepository) List(ctx context.Context) ([]*entity.Subscriber, error) {
	var rows []subscriberRow
	query := `SELECT email, email_key, interest, created_at FROM subscribers ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list subscribers")
	}

	out := make([]*entity.Subscriber, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Subscriber{Email: row.Email, Interest: row.Interest, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
