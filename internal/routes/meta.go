package routes

import (
	"github.com/gin-gonic/gin"

	"erd_visualizer/internal/handlers"
)

type MetaRoutes struct {
	handler *handlers.MetaHandler
}

func NewMetaRoutes(handler *handlers.MetaHandler) *MetaRoutes {
	return &MetaRoutes{handler: handler}
}

// RegisterPublicRoutes mounts the endpoints that never touch a warehouse.
func (r *MetaRoutes) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/version", r.handler.Version)
}

func (r *MetaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/current-user", r.handler.CurrentUser)
}
