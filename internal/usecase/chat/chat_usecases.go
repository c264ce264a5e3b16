package chat

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/tribaldesk-backend/internal/ai"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/repository"
	"github.com/ignatzorin/tribaldesk-backend/internal/logger"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

const (
	ModeReply  = "reply"
	ModeStream = "stream"
)

// ContextProvider отдаёт актуальный контекст компании.
type ContextProvider interface {
	Text() string
}

type Recorder interface {
	ChatCompleted(mode string, err error)
}

type Input struct {
	History []entity.ChatMessage
	Message string
	Model   string
}

// ChatUseCase отвечает пользователю от имени ассистента. История приходит
// в каждом запросе, сервер её не хранит.
type ChatUseCase struct {
	assistants repository.AssistantFactory
	context    ContextProvider
	recorder   Recorder
	log        *logrus.Entry
}

func NewChatUseCase(assistants repository.AssistantFactory, companyContext ContextProvider, recorder Recorder) *ChatUseCase {
	return &ChatUseCase{
		assistants: assistants,
		context:    companyContext,
		recorder:   recorder,
		log:        logger.Component("chat"),
	}
}

// Execute возвращает ответ целиком.
func (uc *ChatUseCase) Execute(ctx context.Context, in Input) (string, error) {
	assistant, messages, err := uc.prepare(in)
	if err != nil {
		return "", err
	}

	reply, err := assistant.Chat(ctx, messages)
	uc.record(ModeReply, in.Model, err)
	if err != nil {
		return "", upstreamError(err)
	}
	return reply, nil
}

// ExecuteStream передаёт ответ по частям в onDelta.
func (uc *ChatUseCase) ExecuteStream(ctx context.Context, in Input, onDelta func(chunk string) error) error {
	assistant, messages, err := uc.prepare(in)
	if err != nil {
		return err
	}

	err = assistant.StreamChat(ctx, messages, onDelta)
	uc.record(ModeStream, in.Model, err)
	if err != nil {
		return upstreamError(err)
	}
	return nil
}

func (uc *ChatUseCase) prepare(in Input) (repository.AssistantService, []entity.ChatMessage, error) {
	conv := entity.ChatConversation{History: in.History, Input: in.Message}
	if err := conv.Validate(); err != nil {
		return nil, nil, err
	}

	if uc.assistants == nil {
		return nil, nil, apperror.ErrAIUnavailable
	}
	assistant, err := uc.assistants(in.Model)
	if err != nil {
		return nil, nil, err
	}

	companyContext := ""
	if uc.context != nil {
		companyContext = uc.context.Text()
	}
	return assistant, conv.Messages(ai.SystemPrompt(companyContext)), nil
}

func (uc *ChatUseCase) record(mode, model string, err error) {
	if uc.recorder != nil {
		uc.recorder.ChatCompleted(mode, err)
	}
	if err != nil {
		uc.log.WithFields(logrus.Fields{
			"mode":   mode,
			"model":  model,
			"reason": ai.Classify(err),
		}).WithError(err).Warn("Ошибка ответа ассистента")
	}
}

// upstreamError оборачивает сбой модели. Текст ошибки показывается
// пользователю так же, как в интерфейсе чата.
func upstreamError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(err, apperror.ErrCodeUpstream, ai.PublicMessage(err))
}
