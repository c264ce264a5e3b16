package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/subscriber"
)

type SubscriberHandler struct {
	subscribeUC *subscriber.SubscribeUseCase
}

func NewSubscriberHandler(subscribeUC *subscriber.SubscribeUseCase) *SubscriberHandler {
	return &SubscriberHandler{subscribeUC: subscribeUC}
}

type SubscribeRequest struct {
	Email    string `json:"email"`
	Interest string `json:"interest"`
}

type SubscribeResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

// Subscribe обрабатывает POST /api/subscribers. Повторная подписка
// не ошибка: отвечаем 200 и created=false.
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	created, err := h.subscribeUC.Execute(c.Request.Context(), subscriber.SubscribeInput{
		Email:    req.Email,
		Interest: req.Interest,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if !created {
		response.Success(c, SubscribeResponse{Created: false, Message: "You're already on the list."})
		return
	}
	response.Created(c, SubscribeResponse{Created: true, Message: "Thanks! We'll be in touch."})
}
