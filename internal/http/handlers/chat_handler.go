package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/chat"
)

type ChatHandler struct {
	chatUC *chat.ChatUseCase
}

func NewChatHandler(chatUC *chat.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUC: chatUC}
}

// ChatRequest — история диалога хранится на клиенте и приходит целиком.
type ChatRequest struct {
	History []entity.ChatMessage `json:"history"`
	Message string               `json:"message"`
	Model   string               `json:"model"`
}

func (r ChatRequest) input() chat.Input {
	return chat.Input{History: r.History, Message: r.Message, Model: r.Model}
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Reply обрабатывает POST /api/chat.
func (h *ChatHandler) Reply(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	reply, err := h.chatUC.Execute(c.Request.Context(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, ChatResponse{Reply: reply})
}

// Stream обрабатывает POST /api/chat/stream. Заголовки SSE отправляются
// с первым фрагментом, поэтому ошибки проверки ввода и конфигурации
// приходят обычным JSON с кодом ответа.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Error(c, errStreamingUnsupported)
		return
	}

	started := false
	start := func() {
		if started {
			return
		}
		started = true
		c.Writer.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Status(http.StatusOK)
	}

	err := h.chatUC.ExecuteStream(c.Request.Context(), req.input(), func(chunk string) error {
		start()
		if _, writeErr := writeSSEData(c.Writer, chunk); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		if !started {
			response.Error(c, err)
			return
		}
		_, _ = writeSSEEvent(c.Writer, "error", publicMessage(err))
		flusher.Flush()
		return
	}

	start()
	_, _ = writeSSEEvent(c.Writer, "done", "[DONE]")
	flusher.Flush()
}
