package proposal

import (
	"context"

	"github.com/ignatzorin/tribaldesk-backend/internal/document"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

type DocxResult struct {
	*Result
	Content  []byte
	MIMEType string
}

// ExportDocxUseCase прогоняет конвейер без предпросмотра и упаковывает
// итоговый Markdown в .docx.
type ExportDocxUseCase struct {
	generate *GenerateDraftUseCase
	recorder Recorder
}

func NewExportDocxUseCase(generate *GenerateDraftUseCase, recorder Recorder) *ExportDocxUseCase {
	return &ExportDocxUseCase{generate: generate, recorder: recorder}
}

func (uc *ExportDocxUseCase) Execute(ctx context.Context, in Input) (*DocxResult, error) {
	result, err := uc.generate.run(ctx, in, false)
	if err != nil {
		return nil, err
	}

	content, err := document.ExportDocx(result.Markdown)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "failed to build document")
	}
	if uc.recorder != nil {
		uc.recorder.DocxExported()
	}

	return &DocxResult{
		Result:   result,
		Content:  content,
		MIMEType: document.DocxMIMEType,
	}, nil
}
