package handlers

import (
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/domain/valueobject"
	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/grant"
)

type GrantHandler struct {
	createUC *grant.CreateGrantUseCase
	listUC   *grant.ListGrantsUseCase
	statusUC *grant.UpdateGrantStatusUseCase
	deleteUC *grant.DeleteGrantUseCase
	exportUC *grant.ExportGrantsUseCase
}

func NewGrantHandler(
	createUC *grant.CreateGrantUseCase,
	listUC *grant.ListGrantsUseCase,
	statusUC *grant.UpdateGrantStatusUseCase,
	deleteUC *grant.DeleteGrantUseCase,
	exportUC *grant.ExportGrantsUseCase,
) *GrantHandler {
	return &GrantHandler{
		createUC: createUC,
		listUC:   listUC,
		statusUC: statusUC,
		deleteUC: deleteUC,
		exportUC: exportUC,
	}
}

type CreateGrantRequest struct {
	Title    string `json:"title"`
	Funder   string `json:"funder"`
	Link     string `json:"link"`
	Deadline string `json:"deadline"`
	Amount   string `json:"amount"`
	Notes    string `json:"notes"`
	Status   string `json:"status"`
}

type UpdateGrantStatusRequest struct {
	Status string `json:"status"`
}

type GrantResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Funder    string    `json:"funder"`
	Link      string    `json:"link"`
	Deadline  string    `json:"deadline"`
	Amount    string    `json:"amount"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type GrantListResponse struct {
	Grants   []GrantResponse `json:"grants"`
	Statuses []string        `json:"statuses"`
}

func toGrantResponse(g *entity.GrantRecord) GrantResponse {
	return GrantResponse{
		ID:        g.ID.String(),
		Title:     g.Title,
		Funder:    g.Funder,
		Link:      g.Link,
		Deadline:  g.DeadlineString(),
		Amount:    g.Amount,
		Notes:     g.Notes,
		Status:    g.Status.String(),
		CreatedAt: g.CreatedAt,
	}
}

// List обрабатывает GET /api/grants. Вместе с записями отдаётся
// допустимый набор статусов для выпадающего списка.
func (h *GrantHandler) List(c *gin.Context) {
	grants, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := GrantListResponse{
		Grants:   make([]GrantResponse, 0, len(grants)),
		Statuses: make([]string, 0, len(valueobject.GrantStatuses)),
	}
	for _, g := range grants {
		out.Grants = append(out.Grants, toGrantResponse(g))
	}
	for _, s := range valueobject.GrantStatuses {
		out.Statuses = append(out.Statuses, s.String())
	}

	response.Success(c, out)
}

// Create обрабатывает POST /api/grants.
func (h *GrantHandler) Create(c *gin.Context) {
	var req CreateGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	g, err := h.createUC.Execute(c.Request.Context(), entity.NewGrantInput{
		Title:    req.Title,
		Funder:   req.Funder,
		Link:     req.Link,
		Deadline: req.Deadline,
		Amount:   req.Amount,
		Notes:    req.Notes,
		Status:   req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toGrantResponse(g))
}

// UpdateStatus обрабатывает PUT /api/grants/:id/status.
func (h *GrantHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "id must be a valid UUID")
		return
	}

	var req UpdateGrantStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	g, err := h.statusUC.Execute(c.Request.Context(), id, req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toGrantResponse(g))
}

// Delete обрабатывает DELETE /api/grants/:id.
func (h *GrantHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "id must be a valid UUID")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export обрабатывает GET /api/grants/export.
func (h *GrantHandler) Export(c *gin.Context) {
	data, err := h.exportUC.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": grant.ExportFileName,
	}))
	c.Data(http.StatusOK, grant.ExportMIMEType+"; charset=utf-8", data)
}
