package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// GrantPostgresRepository хранит гранты в таблице grants.
type GrantPostgresRepository struct {
	db *sqlx.DB
}

func NewGrantPostgresRepository(db *sqlx.DB) *GrantPostgresRepository {
	return &GrantPostgresRepository{db: db}
}

type grantRow struct {
	ID        uuid.UUID    `db:"id"`
	Title     string       `db:"title"`
	Funder    string       `db:"funder"`
	Link      string       `db:"link"`
	Deadline  sql.NullTime `db:"deadline"`
	Amount    string       `db:"amount"`
	Notes     string       `db:"notes"`
	Status    string       `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
}

func toGrantRow(g *entity.GrantRecord) grantRow {
	row := grantRow{
		ID:        g.ID,
		Title:     g.Title,
		Funder:    g.Funder,
		Link:      g.Link,
		Amount:    g.Amount,
		Notes:     g.Notes,
		Status:    g.Status.String(),
		CreatedAt: g.CreatedAt,
	}
	if g.Deadline != nil {
		row.Deadline = sql.NullTime{Time: *g.Deadline, Valid: true}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (r grantRow) toEntity() (*entity.GrantRecord, error) {
	status, err := valueobject.ParseStoredGrantStatus(r.Status)
	if err != nil {
		return nil, err
	}
	g := &entity.GrantRecord{
		ID:        r.ID,
		Title:     r.Title,
		Funder:    r.Funder,
		Link:      r.Link,
		Amount:    r.Amount,
		Notes:     r.Notes,
		Status:    status,
		CreatedAt: r.CreatedAt,
	}
	if r.Deadline.Valid {
		d := r.Deadline.Time.UTC()
		g.Deadline = &d
	}
	return g, nil
}

const grantColumns = `id, title, funder, link, deadline, amount, notes, status, created_at`

func (r *GrantPostgresRepository) Create(ctx context.Context, grant *entity.GrantRecord) error {
	query := `
		INSERT INTO grants (` + grantColumns + `)
		VALUES (:id, :title, :funder, :link, :deadline, :amount, :notes, :status, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, toGrantRow(grant)); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to create grant")
	}
	return nil
}

func (r *GrantPostgresRepository) List(ctx context.Context) ([]*entity.GrantRecord, error) {
	var rows []grantRow
	query := `SELECT ` + grantColumns + ` FROM grants ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to list grants")
	}

	grants := make([]*entity.GrantRecord, 0, len(rows))
	for _, row := range rows {
		g, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}

func (r *GrantPostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GrantRecord, error) {
	var row grantRow
	query := `SELECT ` + grantColumns + ` FROM grants WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGrantNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to get grant")
	}
	return row.toEntity()
}

func (r *GrantPostgresRepository) Update(ctx context.Context, grant *entity.GrantRecord) error {
	query := `
		UPDATE grants
		SET title = :title, funder = :funder, link = :link, deadline = :deadline,
		    amount = :amount, notes = :notes, status = :status
		WHERE id = :id
	`
	res, err := r.db.NamedExecContext(ctx, query, toGrantRow(grant))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to update grant")
	}
	return requireAffected(res)
}

func (r *GrantPostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grants WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to delete grant")
	}
	return requireAffected(res)
}

// Ping проверяет соединение с базой.
func (r *GrantPostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to read affected rows")
	}
	if n == 0 {
		return apperror.ErrGrantNotFound
	}
	return nil
}
