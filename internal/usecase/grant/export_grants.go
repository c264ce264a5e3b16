package grant

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

const (
	ExportFileName = "grants.csv"
	ExportMIMEType = "text/csv"
)

// ExportHeader — колонки выгрузки, как в кнопке "Download CSV".
var ExportHeader = []string{"Title", "Funder", "Link", "Deadline", "Amount", "Notes", "Status"}

type ExportGrantsUseCase struct {
	list *ListGrantsUseCase
}

func NewExportGrantsUseCase(list *ListGrantsUseCase) *ExportGrantsUseCase {
	return &ExportGrantsUseCase{list: list}
}

// Execute возвращает содержимое CSV файла со всеми грантами.
func (uc *ExportGrantsUseCase) Execute(ctx context.Context) ([]byte, error) {
	grants, err := uc.list.Execute(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ExportHeader); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to export grants")
	}
	for _, g := range grants {
		row := []string{g.Title, g.Funder, g.Link, g.DeadlineString(), g.Amount, g.Notes, g.StoredStatus()}
		if err := w.Write(row); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to export grants")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to export grants")
	}
	return buf.Bytes(), nil
}
