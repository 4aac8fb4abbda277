package routes

import (
	"github.com/gin-gonic/gin"

	"erd_visualizer/internal/handlers"
)

// RegisterRoutes mounts the API under prefix. Routes that query the warehouse run
// behind resolveCredentials.
func RegisterRoutes(router *gin.Engine, prefix string, resolveCredentials gin.HandlerFunc, metaHandler *handlers.MetaHandler, catalogHandler *handlers.CatalogHandler) {
	api := router.Group(prefix)

	metaRoutes := NewMetaRoutes(metaHandler)
	metaRoutes.RegisterPublicRoutes(api)

	data := api.Group("")
	data.Use(resolveCredentials)

	metaRoutes.RegisterRoutes(data)

	catalogRoutes := NewCatalogRoutes(catalogHandler)
	catalogRoutes.RegisterRoutes(data)

	router.GET("/healthz", metaHandler.Health)
}
