package valueobject

import (
	"strings"

	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

type GrantStatus string

const (
	GrantStatusToReview  GrantStatus = "To Review"
	GrantStatusDrafting  GrantStatus = "Drafting"
	GrantStatusSubmitted GrantStatus = "Submitted"
	GrantStatusAwarded   GrantStatus = "Awarded"
	GrantStatusDeclined  GrantStatus = "Declined"
)

// GrantStatuses перечисляет статусы в порядке отображения.
var GrantStatuses = []GrantStatus{
	GrantStatusToReview,
	GrantStatusDrafting,
	GrantStatusSubmitted,
	GrantStatusAwarded,
	GrantStatusDeclined,
}

// legacyGrantStatuses — значения из старого формата трекера.
var legacyGrantStatuses = map[string]GrantStatus{
	"not applied": GrantStatusToReview,
	"in progress": GrantStatusDrafting,
	"denied":      GrantStatusDeclined,
}

func (s GrantStatus) IsValid() bool {
	switch s {
	case GrantStatusToReview, GrantStatusDrafting, GrantStatusSubmitted, GrantStatusAwarded, GrantStatusDeclined:
		return true
	}
	return false
}

func (s GrantStatus) String() string {
	return string(s)
}

// NewGrantStatus разбирает статус. Пустое значение даёт To Review.
func NewGrantStatus(status string) (GrantStatus, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return GrantStatusToReview, nil
	}
	s := GrantStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "unknown grant status: "+status)
	}
	return s, nil
}

// ParseStoredGrantStatus разбирает статус из сохранённой строки и принимает
// значения старого формата (Not Applied, In Progress, Denied).
func ParseStoredGrantStatus(status string) (GrantStatus, error) {
	if legacy, ok := legacyGrantStatuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return legacy, nil
	}
	for _, s := range GrantStatuses {
		if strings.EqualFold(string(s), strings.TrimSpace(status)) {
			return s, nil
		}
	}
	return NewGrantStatus(status)
}
