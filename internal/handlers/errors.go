package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erd_visualizer/internal/apperrors"
	"erd_visualizer/internal/middlewares"
	"erd_visualizer/internal/responses"
	"erd_visualizer/internal/warehouse"
)

// fail maps a service error onto the HTTP error envelope.
func fail(c *gin.Context, logger *zap.Logger, err error) {
	var (
		invalid     *apperrors.InvalidIdentifierError
		unavailable *apperrors.WarehouseUnavailableError
		queryErr    *apperrors.QueryExecutionError
	)

	switch {
	case errors.As(err, &invalid):
		if invalid.Fingerprint != "" {
			logger.Warn("Rejected identifier that looks like SQL injection",
				zap.String("kind", invalid.Kind),
				zap.String("value", invalid.Value),
				zap.String("fingerprint", invalid.Fingerprint),
				zap.String("caller", middlewares.CallerSubject(c)))
		}
		responses.Fail(c, http.StatusBadRequest, err, invalid.Error())
	case errors.As(err, &unavailable):
		responses.Fail(c, http.StatusBadRequest, err, unavailable.Reason)
	case errors.As(err, &queryErr):
		logger.Error("Statement failed", zap.String("state", queryErr.State), zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, queryErr.Error())
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		responses.Fail(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

// client returns the request's warehouse client or writes a 500 when the
// credential middleware did not run.
func client(c *gin.Context) (warehouse.Client, bool) {
	wc, ok := middlewares.WarehouseClient(c)
	if !ok || wc == nil {
		responses.Fail(c, http.StatusInternalServerError, nil, "No warehouse client for request")
		return nil, false
	}
	return wc, true
}
