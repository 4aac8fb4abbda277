package middlewares

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erd_visualizer/internal/credentials"
	"erd_visualizer/internal/utils"
	"erd_visualizer/internal/warehouse"
)

const (
	warehouseClientKey = "warehouseClient"
	callerSubjectKey   = "callerSubject"
)

// ResolveCredentials picks the warehouse client for the request from the forwarded
// access token and stores it in the context. Clients built for this request are
// closed once the handler chain returns, including when it panics.
func ResolveCredentials(selector *credentials.Selector, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(credentials.ForwardedTokenHeader)

		client, owned := selector.ClientFor(c.Request.Context(), header)
		if owned {
			defer func() {
				if err := client.Close(); err != nil {
					logger.Warn("Failed to close per-caller warehouse client", zap.Error(err))
				}
			}()
		}

		c.Set(warehouseClientKey, client)
		if sub := utils.TokenSubject(header); sub != "" {
			c.Set(callerSubjectKey, sub)
		}

		c.Next()
	}
}

// WarehouseClient returns the client stored by ResolveCredentials.
func WarehouseClient(c *gin.Context) (warehouse.Client, bool) {
	v, exists := c.Get(warehouseClientKey)
	if !exists {
		return nil, false
	}
	client, ok := v.(warehouse.Client)
	return client, ok
}

// CallerSubject returns the unverified subject of the forwarded token, if any.
func CallerSubject(c *gin.Context) string {
	return c.GetString(callerSubjectKey)
}
