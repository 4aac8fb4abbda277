package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erd_visualizer/internal/responses"
	"erd_visualizer/internal/services"
)

type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *zap.Logger
}

func NewCatalogHandler(catalogService *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListCatalogs handles GET /catalogs
func (h *CatalogHandler) ListCatalogs(c *gin.Context) {
	wc, ok := client(c)
	if !ok {
		return
	}

	list, err := h.catalogService.ListCatalogs(c.Request.Context(), wc)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	responses.OK(c, http.StatusOK, list)
}

// ListSchemas handles GET /catalogs/:catalog_name/schemas
func (h *CatalogHandler) ListSchemas(c *gin.Context) {
	wc, ok := client(c)
	if !ok {
		return
	}

	list, err := h.catalogService.ListSchemas(c.Request.Context(), wc, c.Param("catalog_name"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	responses.OK(c, http.StatusOK, list)
}

// GetSchemaERD handles GET /catalogs/:catalog_name/schemas/:schema_name/erd
func (h *CatalogHandler) GetSchemaERD(c *gin.Context) {
	wc, ok := client(c)
	if !ok {
		return
	}

	diagram, err := h.catalogService.GetSchemaERD(c.Request.Context(), wc, c.Param("catalog_name"), c.Param("schema_name"))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	responses.OK(c, http.StatusOK, diagram)
}

// VisualizeSchema handles GET /catalogs/:catalog_name/schemas/:schema_name/erd/mermaid
func (h *CatalogHandler) VisualizeSchema(c *gin.Context) {
	wc, ok := client(c)
	if !ok {
		return
	}

	schema := c.Param("schema_name")
	mermaidDiagram, err := h.catalogService.VisualizeSchema(c.Request.Context(), wc, c.Param("catalog_name"), schema)
	if err != nil {
		fail(c, h.logger, err)
		return
	}

	responses.OK(c, http.StatusOK, gin.H{
		"mermaid": mermaidDiagram,
		"schema":  schema,
	})
}
