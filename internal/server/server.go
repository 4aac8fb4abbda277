package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erd_visualizer/internal/config"
	"erd_visualizer/internal/credentials"
	"erd_visualizer/internal/database"
	"erd_visualizer/internal/handlers"
	"erd_visualizer/internal/middlewares"
	"erd_visualizer/internal/queries"
	"erd_visualizer/internal/repositories"
	"erd_visualizer/internal/routes"
	"erd_visualizer/internal/services"
	"erd_visualizer/internal/utils"
	"erd_visualizer/internal/warehouse"
	"erd_visualizer/internal/warehouse/databricks"
	"erd_visualizer/internal/warehouse/postgres"
)

// Runtime holds the process-wide objects shared by every request.
// It is built once at startup and never mutated afterwards.
type Runtime struct {
	Config  *config.Config
	Logger  *zap.Logger
	Service warehouse.Client
	Factory warehouse.Factory
	Builder *queries.Builder
}

// NewRuntime connects the service credential for the configured backend.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Runtime, error) {
	dialect, err := queries.ParseDialect(cfg.Warehouse.Backend)
	if err != nil {
		return nil, err
	}

	rt := &Runtime{
		Config:  cfg,
		Logger:  logger,
		Builder: queries.NewBuilder(dialect),
	}

	switch cfg.Warehouse.Backend {
	case config.BackendDatabricks:
		if cfg.Databricks.Token == "" {
			logger.Warn("DATABRICKS_TOKEN is not set, requests without a forwarded token will fail")
		}
		httpClient := &http.Client{Timeout: warehouse.WaitTimeout + 30*time.Second}
		service, err := databricks.NewClient(cfg.Databricks.Host, cfg.Databricks.Token, httpClient, logger)
		if err != nil {
			return nil, err
		}
		rt.Service = service
		rt.Factory = databricks.NewFactory(cfg.Databricks.Host, httpClient, logger)

	case config.BackendPostgres:
		connCfg, err := database.ParseConfig(cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		db, err := database.Open(ctx, connCfg, cfg.Postgres.MaxConns, logger)
		if err != nil {
			return nil, err
		}
		rt.Service = postgres.NewClient(db, cfg.Postgres.WarehouseID, logger)
		rt.Factory = postgres.NewFactory(connCfg, cfg.Postgres.WarehouseID, logger)

	default:
		return nil, fmt.Errorf("unknown warehouse backend %q", cfg.Warehouse.Backend)
	}

	return rt, nil
}

// Close releases the service client.
func (rt *Runtime) Close() error {
	if rt.Service == nil {
		return nil
	}
	return rt.Service.Close()
}

// NewRouter wires handlers, services and middlewares onto a gin engine.
func NewRouter(rt *Runtime) *gin.Engine {
	policy := credentials.Policy{
		MinTokenLength: rt.Config.Auth.MinTokenLength,
		Placeholders:   rt.Config.Auth.Placeholders,
	}
	selector := credentials.NewSelector(policy, rt.Service, rt.Factory, rt.Logger)

	// Dependency injection
	catalogRepo := repositories.NewCatalogRepository(rt.Builder)
	catalogService := services.NewCatalogService(catalogRepo, rt.Logger)
	metaService := services.NewMetaService(rt.Config.Version)
	catalogHandler := handlers.NewCatalogHandler(catalogService, rt.Logger)
	metaHandler := handlers.NewMetaHandler(metaService, rt.Logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middlewares.RequestLogger(rt.Logger))
	router.Use(cors.New(corsConfig(rt.Config.AllowedOrigins())))

	routes.RegisterRoutes(router, rt.Config.APIPrefix, middlewares.ResolveCredentials(selector, rt.Logger), metaHandler, catalogHandler)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", credentials.ForwardedTokenHeader},
		ExposeHeaders: []string{middlewares.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || utils.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// NewServer builds the runtime and the HTTP server around it.
// The caller closes the runtime after the server has shut down.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*http.Server, *Runtime, error) {
	rt, err := NewRuntime(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	// Create and configure the HTTP server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      NewRouter(rt),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: warehouse.WaitTimeout + 30*time.Second,
	}

	return server, rt, nil
}
