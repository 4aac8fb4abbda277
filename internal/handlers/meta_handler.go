package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erd_visualizer/internal/responses"
	"erd_visualizer/internal/services"
)

type MetaHandler struct {
	metaService *services.MetaService
	logger      *zap.Logger
}

func NewMetaHandler(metaService *services.MetaService, logger *zap.Logger) *MetaHandler {
	return &MetaHandler{
		metaService: metaService,
		logger:      logger,
	}
}

// Version handles GET /version
func (h *MetaHandler) Version(c *gin.Context) {
	responses.OK(c, http.StatusOK, h.metaService.Version())
}

// CurrentUser handles GET /current-user
func (h *MetaHandler) CurrentUser(c *gin.Context) {
	wc, ok := client(c)
	if !ok {
		return
	}

	user, err := h.metaService.CurrentUser(c.Request.Context(), wc)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	responses.OK(c, http.StatusOK, user)
}

// Health handles GET /healthz
func (h *MetaHandler) Health(c *gin.Context) {
	responses.OK(c, http.StatusOK, gin.H{"status": "ok"})
}
