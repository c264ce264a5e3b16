package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
	"github.com/ignatzorin/tribaldesk-backend/internal/usecase/proposal"
)

// Заголовки, которыми /docx сообщает итог улучшения вне тела файла.
const (
	HeaderEnhancementApplied = "X-Enhancement-Applied"
	HeaderEnhancementFailure = "X-Enhancement-Failure"
)

type ProposalHandler struct {
	generateUC *proposal.GenerateDraftUseCase
	exportUC   *proposal.ExportDocxUseCase
}

func NewProposalHandler(generateUC *proposal.GenerateDraftUseCase, exportUC *proposal.ExportDocxUseCase) *ProposalHandler {
	return &ProposalHandler{generateUC: generateUC, exportUC: exportUC}
}

// ProposalRequest — поля формы черновика плюс параметры улучшения.
type ProposalRequest struct {
	entity.ProposalDraft
	Enhance bool   `json:"enhance"`
	Model   string `json:"model"`
}

func (r ProposalRequest) input() proposal.Input {
	return proposal.Input{Draft: r.ProposalDraft, Enhance: r.Enhance, Model: r.Model}
}

type ProposalResponse struct {
	Title        string               `json:"title"`
	BaseMarkdown string               `json:"base_markdown"`
	Markdown     string               `json:"markdown"`
	PreviewHTML  string               `json:"preview_html"`
	Enhancement  proposal.Enhancement `json:"enhancement"`
	FileName     string               `json:"file_name"`
}

// Draft обрабатывает POST /api/proposals/draft.
func (h *ProposalHandler) Draft(c *gin.Context) {
	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.generateUC.Execute(c.Request.Context(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, ProposalResponse{
		Title:        result.Title,
		BaseMarkdown: result.BaseMarkdown,
		Markdown:     result.Markdown,
		PreviewHTML:  result.PreviewHTML,
		Enhancement:  result.Enhancement,
		FileName:     result.FileName,
	})
}

// Docx обрабатывает POST /api/proposals/docx и отдаёт файл вложением.
func (h *ProposalHandler) Docx(c *gin.Context) {
	var req ProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.exportUC.Execute(c.Request.Context(), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Enhancement.Requested {
		c.Header(HeaderEnhancementApplied, strconv.FormatBool(result.Enhancement.Applied))
		if result.Enhancement.Failure != nil {
			c.Header(HeaderEnhancementFailure, string(result.Enhancement.Failure.Reason))
		}
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": result.FileName,
	}))
	c.Data(http.StatusOK, result.MIMEType, result.Content)
}
