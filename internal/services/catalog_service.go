package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"erd_visualizer/internal/erd"
	"erd_visualizer/internal/models"
	"erd_visualizer/internal/repositories"
	"erd_visualizer/internal/warehouse"
)

// CatalogService answers the catalog browsing and ERD endpoints.
// Every method takes the warehouse client resolved for the current request.
type CatalogService struct {
	repo   *repositories.CatalogRepository
	logger *zap.Logger
}

func NewCatalogService(repo *repositories.CatalogRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, logger: logger}
}

func (s *CatalogService) ListCatalogs(ctx context.Context, client warehouse.Client) (*models.CatalogsList, error) {
	catalogs, err := s.repo.ListCatalogs(ctx, client)
	if err != nil {
		return nil, err
	}
	return &models.CatalogsList{Catalogs: catalogs}, nil
}

func (s *CatalogService) ListSchemas(ctx context.Context, client warehouse.Client, catalog string) (*models.SchemasList, error) {
	schemas, err := s.repo.ListSchemas(ctx, client, catalog)
	if err != nil {
		return nil, err
	}
	return &models.SchemasList{Schemas: schemas}, nil
}

// GetSchemaERD builds the entity-relationship model of one schema.
func (s *CatalogService) GetSchemaERD(ctx context.Context, client warehouse.Client, catalog, schema string) (*models.ERD, error) {
	diagram, _, err := s.buildERD(ctx, client, catalog, schema)
	if err != nil {
		return nil, err
	}
	return diagram, nil
}

// VisualizeSchema renders the schema ERD as a Mermaid erDiagram.
func (s *CatalogService) VisualizeSchema(ctx context.Context, client warehouse.Client, catalog, schema string) (string, error) {
	diagram, rows, err := s.buildERD(ctx, client, catalog, schema)
	if err != nil {
		return "", fmt.Errorf("failed to generate schema visualization: %w", err)
	}
	return erd.Mermaid(*diagram, erd.PrimaryKeys(rows)), nil
}

func (s *CatalogService) buildERD(ctx context.Context, client warehouse.Client, catalog, schema string) (*models.ERD, []models.MetadataRow, error) {
	rows, err := s.repo.GetSchemaColumns(ctx, client, catalog, schema)
	if err != nil {
		return nil, nil, err
	}

	diagram := erd.Normalize(catalog, schema, rows)
	s.logger.Debug("Built schema ERD",
		zap.String("catalog", catalog),
		zap.String("schema", schema),
		zap.Int("rows", len(rows)),
		zap.Int("tables", len(diagram.Tables)),
		zap.Int("relationships", len(diagram.Relationships)))
	return &diagram, rows, nil
}
