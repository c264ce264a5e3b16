package entity

import (
	"strings"

	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
	"github.com/ignatzorin/tribaldesk-backend/internal/validation"
)

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage — одна реплика диалога с ассистентом.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatConversation — история, пришедшая от клиента. Системная реплика
// добавляется сервером и клиентом не передаётся.
type ChatConversation struct {
	History []ChatMessage
	Input   string
}

// Validate проверяет ввод пользователя и роли в истории.
func (c ChatConversation) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return apperror.ErrEmptyChatMessage
	}
	if err := validation.ValidateLength("message", c.Input, 0, validation.MaxChatMessageLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if len(c.History) > validation.MaxChatHistory {
		return apperror.New(apperror.ErrCodeValidation, "chat history is too long, clear the chat to continue")
	}
	for _, m := range c.History {
		if m.Role != ChatRoleUser && m.Role != ChatRoleAssistant {
			return apperror.New(apperror.ErrCodeValidation, "history may only contain user and assistant messages")
		}
	}
	return nil
}

// Messages собирает полный список сообщений для модели.
func (c ChatConversation) Messages(systemPrompt string) []ChatMessage {
	msgs := make([]ChatMessage, 0, len(c.History)+2)
	msgs = append(msgs, ChatMessage{Role: ChatRoleSystem, Content: systemPrompt})
	msgs = append(msgs, c.History...)
	msgs = append(msgs, ChatMessage{Role: ChatRoleUser, Content: c.Input})
	return msgs
}
