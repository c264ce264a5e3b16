package entity

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
	appvalidation "github.com/ignatzorin/tribaldesk-backend/internal/validation"
)

// DeadlineLayout — формат даты дедлайна в хранилище и API.
const DeadlineLayout = "2006-01-02"

// GrantRecord — строка трекера грантов.
type GrantRecord struct {
	ID        uuid.UUID
	Title     string
	Funder    string
	Link      string
	Deadline  *time.Time
	Amount    string
	Notes     string
	Status    valueobject.GrantStatus
	CreatedAt time.Time

	// RawDeadline и RawStatus хранят текст из файла трекера, который не
	// удалось разобрать. При сохранении он записывается обратно как есть.
	RawDeadline string
	RawStatus   string
}

// NewGrantInput — поля формы добавления гранта.
type NewGrantInput struct {
	Title    string
	Funder   string
	Link     string
	Deadline string
	Amount   string
	Notes    string
	Status   string
}

func NewGrantRecord(in NewGrantInput) (*GrantRecord, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.ErrGrantTitleMissing
	}

	status, err := valueobject.NewGrantStatus(in.Status)
	if err != nil {
		return nil, err
	}

	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	g := &GrantRecord{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(in.Title),
		Funder:    strings.TrimSpace(in.Funder),
		Link:      strings.TrimSpace(in.Link),
		Deadline:  deadline,
		Amount:    strings.TrimSpace(in.Amount),
		Notes:     in.Notes,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate проверяет обязательные поля и формат ссылки.
func (g *GrantRecord) Validate() error {
	err := validation.ValidateStruct(g,
		validation.Field(&g.Title, validation.Required, validation.Length(1, 300)),
		validation.Field(&g.Link, validation.By(func(value interface{}) error {
			link, _ := value.(string)
			if link == "" {
				return nil
			}
			return appvalidation.ValidateURL(link)
		})),
		validation.Field(&g.Status, validation.By(func(value interface{}) error {
			if s, _ := value.(valueobject.GrantStatus); !s.IsValid() {
				return validation.NewError("validation_grant_status", "unknown status")
			}
			return nil
		})),
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// ChangeStatus переводит грант в другой статус. Переходы не ограничены.
func (g *GrantRecord) ChangeStatus(status string) error {
	s, err := valueobject.NewGrantStatus(status)
	if err != nil {
		return err
	}
	g.Status = s
	g.RawStatus = ""
	return nil
}

// DeadlineString возвращает дедлайн в формате YYYY-MM-DD. Если дата не
// разобрана, возвращается исходный текст.
func (g *GrantRecord) DeadlineString() string {
	if g.Deadline == nil {
		return g.RawDeadline
	}
	return g.Deadline.Format(DeadlineLayout)
}

// StoredStatus — значение статуса для записи в файл.
func (g *GrantRecord) StoredStatus() string {
	if g.RawStatus != "" {
		return g.RawStatus
	}
	return g.Status.String()
}

// ParseDeadline разбирает дату дедлайна. Пустая строка — дедлайна нет.
func ParseDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DeadlineLayout, raw)
	if err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "deadline must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// Форматы дат, которые встречаются в старых файлах трекера.
var storedDeadlineLayouts = []string{
	DeadlineLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
	"January 2 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Jan 2, 2006",
}

// ParseStoredDeadline разбирает дедлайн из сохранённой строки. Время суток
// отбрасывается.
func ParseStoredDeadline(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range storedDeadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, apperror.New(apperror.ErrCodeValidation, "unrecognised deadline: "+raw)
}
