package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// EmailsFileName — имя файла подписчиков в DATA_DIR.
const EmailsFileName = "emails.csv"

var subscriberCSVHeader = []string{"email", "interest", "created_at"}

// SubscriberCSVRepository дописывает подписчиков в CSV файл.
type SubscriberCSVRepository struct {
	mu   sync.Mutex
	path string
}

func NewSubscriberCSVRepository(dataDir string) *SubscriberCSVRepository {
	return &SubscriberCSVRepository{path: filepath.Join(dataDir, EmailsFileName)}
}

// Add дописывает строку, если такого адреса ещё нет (без учёта регистра).
func (r *SubscriberCSVRepository) Add(ctx context.Context, s *entity.Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.load()
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.Key() == s.Key() {
			return false, nil
		}
	}

	if err := r.append(s, len(existing) == 0); err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to save subscription")
	}
	return true, nil
}

func (r *SubscriberCSVRepository) List(ctx context.Context) ([]*entity.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

func (r *SubscriberCSVRepository) load() ([]*entity.Subscriber, error) {
	header, rows, err := readCSV(r.path)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "failed to read subscribers")
	}

	idx := columnIndex(header, nil)
	out := make([]*entity.Subscriber, 0, len(rows))
	for _, row := range rows {
		email := field(row, idx, "email")
		if email == "" {
			continue
		}
		s := &entity.Subscriber{Email: email, Interest: field(row, idx, "interest")}
		if t, err := time.Parse(time.RFC3339, field(row, idx, "created_at")); err == nil {
			s.CreatedAt = t
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SubscriberCSVRepository) append(s *entity.Subscriber, writeHeader bool) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("repository: создание каталога: %w", err)
	}

	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("repository: открытие %s: %w", r.path, err)
	}
	defer f.Close()

	if writeHeader {
		if info, statErr := f.Stat(); statErr == nil && info.Size() > 0 {
			writeHeader = false
		}
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(subscriberCSVHeader); err != nil {
			return fmt.Errorf("repository: запись заголовка: %w", err)
		}
	}
	if err := w.Write([]string{s.Email, s.Interest, s.CreatedAt.UTC().Format(time.RFC3339)}); err != nil {
		return fmt.Errorf("repository: запись подписчика: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("repository: запись подписчика: %w", err)
	}
	return nil
}
