package ai

import (
	"context"
	"fmt"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
)

// AssistantPrompt — системная инструкция чата; к ней дописывается
// контекст компании.
const AssistantPrompt = "You are TribalDesk AI, an expert assistant for Tribal governments, nonprofits, and Native-owned businesses. " +
	"Be clear, concise, and culturally respectful. Use the provided company context when helpful.\n\n"

// SystemPrompt собирает системное сообщение с контекстом компании.
func SystemPrompt(companyContext string) string {
	return AssistantPrompt + companyContext
}

func (c *Client) Chat(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("ai: пустая история сообщений")
	}
	return c.chatCompletion(ctx, messages)
}

func (c *Client) StreamChat(ctx context.Context, messages []entity.ChatMessage, onDelta func(chunk string) error) error {
	if len(messages) == 0 {
		return fmt.Errorf("ai: пустая история сообщений")
	}
	return c.streamChat(ctx, messages, onDelta)
}
