package ai

import (
	"context"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

// EnhancePrompt — инструкция, которая предшествует черновику.
const EnhancePrompt = "Improve and expand the following grant proposal sections for clarity, structure, and persuasive impact. " +
	"Keep culturally respectful language and align with Tribal sovereignty. Return clean Markdown.\n\n"

// EnhanceProposal отправляет черновик одним user-сообщением и возвращает
// ответ модели как есть. Структура ответа не проверяется.
func (c *Client) EnhanceProposal(ctx context.Context, markdown string) (string, error) {
	messages := []entity.ChatMessage{
		{Role: entity.ChatRoleUser, Content: EnhancePrompt + markdown},
	}
	return c.chatCompletion(ctx, messages)
}
