package routes

import (
	"github.com/gin-gonic/gin"

	"erd_visualizer/internal/handlers"
)

type CatalogRoutes struct {
	handler *handlers.CatalogHandler
}

func NewCatalogRoutes(handler *handlers.CatalogHandler) *CatalogRoutes {
	return &CatalogRoutes{handler: handler}
}

func (r *CatalogRoutes) RegisterRoutes(router *gin.RouterGroup) {
	catalogs := router.Group("/catalogs")
	{
		catalogs.GET("", r.handler.ListCatalogs)
		catalogs.GET("/:catalog_name/schemas", r.handler.ListSchemas)
		catalogs.GET("/:catalog_name/schemas/:schema_name/erd", r.handler.GetSchemaERD)
		catalogs.GET("/:catalog_name/schemas/:schema_name/erd/mermaid", r.handler.VisualizeSchema)
	}
}
