package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// GrantsFileName — имя файла трекера в DATA_DIR.
const GrantsFileName = "grants.csv"

// GrantCSVHeader — колонки файла трекера.
var GrantCSVHeader = []string{"ID", "Title", "Funder", "Link", "Deadline", "Amount", "Notes", "Status"}

// Синонимы колонок из старого формата трекера.
var grantColumnAliases = map[string]string{
	"grant name": "title",
	"source":     "funder",
}

// GrantCSVRepository хранит гранты в CSV файле. Доступ сериализуется
// мьютексом в пределах процесса, между процессами защиты нет.
type GrantCSVRepository struct {
	mu   sync.Mutex
	path string
	log  *logrus.Entry
}

func NewGrantCSVRepository(dataDir string) *GrantCSVRepository {
	path := filepath.Join(dataDir, GrantsFileName)
	return &GrantCSVRepository{
		path: path,
		log:  logger.Component("grant_csv").WithField("path", path),
	}
}

func (r *GrantCSVRepository) Create(ctx context.Context, grant *entity.GrantRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	grants = append(grants, grant)
	return r.save(grants)
}

func (r *GrantCSVRepository) List(ctx context.Context) ([]*entity.GrantRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *GrantCSVRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.GrantRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, g := range grants {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, apperror.ErrGrantNotFound
}

func (r *GrantCSVRepository) Update(ctx context.Context, grant *entity.GrantRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	for i, g := range grants {
		if g.ID == grant.ID {
			grants[i] = grant
			return r.save(grants)
		}
	}
	return apperror.ErrGrantNotFound
}

func (r *GrantCSVRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	grants, err := r.load()
	if err != nil {
		return err
	}
	for i, g := range grants {
		if g.ID == id {
			grants = append(grants[:i], grants[i+1:]...)
			return r.save(grants)
		}
	}
	return apperror.ErrGrantNotFound
}

// Ping проверяет, что файл трекера читается.
func (r *GrantCSVRepository) Ping(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _, err := readCSV(r.path)
	return err
}

// load читает файл. Строки без ID (старый формат) получают новый ID,
// и файл сразу перезаписывается, чтобы ID были стабильны.
func (r *GrantCSVRepository) load() ([]*entity.GrantRecord, error) {
	header, rows, err := readCSV(r.path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to read grant tracker")
	}

	idx := columnIndex(header, grantColumnAliases)
	grants := make([]*entity.GrantRecord, 0, len(rows))
	assigned := false

	for n, row := range rows {
		g := &entity.GrantRecord{
			Title:  field(row, idx, "title"),
			Funder: field(row, idx, "funder"),
			Link:   field(row, idx, "link"),
			Amount: field(row, idx, "amount"),
			Notes:  field(row, idx, "notes"),
		}

		if id, err := uuid.Parse(field(row, idx, "id")); err == nil {
			g.ID = id
		} else {
			g.ID = uuid.New()
			assigned = true
		}

		rawStatus := field(row, idx, "status")
		status, err := valueobject.ParseStoredGrantStatus(rawStatus)
		if err != nil {
			r.log.WithFields(logrus.Fields{"row": n + 2, "status": rawStatus}).
				Warn("Неизвестный статус гранта, в API отдаётся To Review, в файле остаётся как есть")
			status = valueobject.GrantStatusToReview
			g.RawStatus = rawStatus
		}
		g.Status = status

		rawDeadline := field(row, idx, "deadline")
		deadline, err := entity.ParseStoredDeadline(rawDeadline)
		if err != nil {
			r.log.WithFields(logrus.Fields{"row": n + 2, "deadline": rawDeadline}).
				Warn("Дедлайн не распознан, текст сохраняется без изменений")
			g.RawDeadline = rawDeadline
		}
		g.Deadline = deadline

		grants = append(grants, g)
	}

	if assigned {
		if err := r.save(grants); err != nil {
			return nil, err
		}
		r.log.WithField("rows", len(grants)).Info("Строкам трекера присвоены ID")
	}
	return grants, nil
}

func (r *GrantCSVRepository) save(grants []*entity.GrantRecord) error {
	rows := make([][]string, 0, len(grants))
	for _, g := range grants {
		rows = append(rows, []string{
			g.ID.String(),
			g.Title,
			g.Funder,
			g.Link,
			g.DeadlineString(),
			g.Amount,
			g.Notes,
			g.StoredStatus(),
		})
	}
	if err := writeCSV(r.path, GrantCSVHeader, rows); err != nil {
		return apperror.Wrap(fmt.Errorf("repository: сохранение трекера: %w", err), apperror.ErrCodeDatabaseError, "failed to save grant tracker")
	}
	return nil
}
