package entity

import (
	"strings"
	"time"

	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tribaldesk-backend/internal/validation"
)

// Subscriber — адрес из формы "Stay in the loop".
type Subscriber struct {
	Email     string
	Interest  string
	CreatedAt time.Time
}

func NewSubscriber(email, interest string) (*Subscriber, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, apperror.ErrInvalidEmail.Message)
	}
	if err := validation.ValidateLength("interest", interest, 0, validation.MaxInterestLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	return &Subscriber{
		Email:     strings.TrimSpace(email),
		Interest:  strings.TrimSpace(interest),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Key возвращает ключ дедупликации.
func (s *Subscriber) Key() string {
	return validation.NormalizeEmail(s.Email)
}
