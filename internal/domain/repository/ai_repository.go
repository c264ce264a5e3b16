package repository

import (
	"context"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

// ProposalEnhancer переписывает Markdown черновика через языковую модель.
type ProposalEnhancer interface {
	EnhanceProposal(ctx context.Context, markdown string) (string, error)
	// Model возвращает модель, которой фактически отправляется запрос.
	Model() string
}

// EnhancerFactory создаёт клиента под выбранную модель. Пустая модель
// означает модель по умолчанию.
type EnhancerFactory func(model string) (ProposalEnhancer, error)

// AssistantService отвечает в чате.
type AssistantService interface {
	Chat(ctx context.Context, messages []entity.ChatMessage) (string, error)
	StreamChat(ctx context.Context, messages []entity.ChatMessage, onDelta func(chunk string) error) error
}

// AssistantFactory создаёт ассистента под выбранную модель.
type AssistantFactory func(model string) (AssistantService, error)
