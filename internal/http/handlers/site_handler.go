package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/tribaldesk-backend/internal/config"
	"github.com/ignatzorin/tribaldesk-backend/internal/interface/http/response"
)

// SiteHandler отдаёт статический контент лендинга и список моделей.
type SiteHandler struct {
	site   *config.SiteContent
	models []string
}

func NewSiteHandler(site *config.SiteContent, models []string) *SiteHandler {
	return &SiteHandler{site: site, models: models}
}

type ModelsResponse struct {
	Default string   `json:"default"`
	Models  []string `json:"models"`
}

func (h *SiteHandler) Site(c *gin.Context) {
	response.Success(c, h.site)
}

func (h *SiteHandler) Models(c *gin.Context) {
	out := ModelsResponse{Models: h.models}
	if len(h.models) > 0 {
		out.Default = h.models[0]
	}
	response.Success(c, out)
}
