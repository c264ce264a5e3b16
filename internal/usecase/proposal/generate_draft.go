package proposal

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/ai"
	"github.com/ignatzorin/tribaldesk-backend/internal/document"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// PreviewRenderer рендерит итоговый Markdown в HTML.
type PreviewRenderer interface {
	Render(markdown string) (string, error)
}

// Recorder учитывает исходы конвейера в метриках.
type Recorder interface {
	EnhancementSkipped()
	EnhancementApplied()
	EnhancementFailed(reason string)
	DocxExported()
}

type Input struct {
	Draft   entity.ProposalDraft
	Enhance bool
	Model   string
}

// EnhancementFailure описывает сбой улучшения. Черновик при этом
// возвращается без изменений.
type EnhancementFailure struct {
	Reason  ai.FailureReason `json:"reason"`
	Message string           `json:"message"`
}

// Enhancement — итог шага улучшения.
type Enhancement struct {
	Requested bool                `json:"requested"`
	Applied   bool                `json:"applied"`
	Model     string              `json:"model,omitempty"`
	Failure   *EnhancementFailure `json:"failure,omitempty"`
}

type Result struct {
	Title        string
	BaseMarkdown string
	Markdown     string
	PreviewHTML  string
	Enhancement  Enhancement
	FileName     string
}

type GenerateDraftUseCase struct {
	enhancers repository.EnhancerFactory
	renderer  PreviewRenderer
	recorder  Recorder
	log       *logrus.Entry
}

// NewGenerateDraftUseCase собирает конвейер. enhancers может быть nil,
// если ключ API не настроен: тогда запрос с enhance=true завершается
// ошибкой конфигурации.
func NewGenerateDraftUseCase(enhancers repository.EnhancerFactory, renderer PreviewRenderer, recorder Recorder) *GenerateDraftUseCase {
	return &GenerateDraftUseCase{
		enhancers: enhancers,
		renderer:  renderer,
		recorder:  recorder,
		log:       logger.Component("proposal"),
	}
}

func (uc *GenerateDraftUseCase) Execute(ctx context.Context, in Input) (*Result, error) {
	return uc.run(ctx, in, true)
}

// run выполняет конвейер. При preview=false HTML не рендерится.
func (uc *GenerateDraftUseCase) run(ctx context.Context, in Input, preview bool) (*Result, error) {
	base := in.Draft.Markdown()
	result := &Result{
		Title:        in.Draft.Title(),
		BaseMarkdown: base,
		Markdown:     base,
		Enhancement:  Enhancement{Requested: in.Enhance},
		FileName:     document.FileName(in.Draft.FileBaseName(), entity.DefaultFileName),
	}

	if in.Enhance {
		if err := uc.enhance(ctx, in.Model, result); err != nil {
			return nil, err
		}
	} else if uc.recorder != nil {
		uc.recorder.EnhancementSkipped()
	}

	if preview && uc.renderer != nil {
		html, err := uc.renderer.Render(result.Markdown)
		if err != nil {
			uc.log.WithError(err).Warn("Не удалось отрисовать предпросмотр")
		}
		result.PreviewHTML = html
	}

	return result, nil
}

// enhance заменяет Markdown ответом модели. Сбой вызова не прерывает
// конвейер: он записывается в result.Enhancement.Failure, в лог и в
// метрики ровно по одному разу. Ошибкой возвращается только отсутствие
// настроенного клиента.
func (uc *GenerateDraftUseCase) enhance(ctx context.Context, model string, result *Result) error {
	if uc.enhancers == nil {
		return apperror.ErrAIUnavailable
	}

	enhancer, err := uc.enhancers(model)
	if err != nil {
		if apperror.IsConfiguration(err) || apperror.IsValidation(err) {
			return err
		}
		return apperror.Wrap(err, apperror.ErrCodeConfiguration, "AI service is not configured")
	}
	result.Enhancement.Model = enhancer.Model()

	text, err := enhancer.EnhanceProposal(ctx, result.BaseMarkdown)
	if err != nil {
		reason := ai.Classify(err)
		result.Enhancement.Failure = &EnhancementFailure{Reason: reason, Message: ai.PublicMessage(err)}

		uc.log.WithFields(logrus.Fields{
			"reason": reason,
			"model":  result.Enhancement.Model,
			"title":  result.Title,
		}).WithError(err).Warn("Улучшение черновика не удалось, возвращён исходный текст")
		if uc.recorder != nil {
			uc.recorder.EnhancementFailed(string(reason))
		}
		return nil
	}

	result.Markdown = text
	result.Enhancement.Applied = true
	if uc.recorder != nil {
		uc.recorder.EnhancementApplied()
	}
	return nil
}
