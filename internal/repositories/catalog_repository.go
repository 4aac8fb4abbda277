package repositories

import (
	"context"
	"fmt"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/queries"
	"erd_visualizer/internal/warehouse"
)

// CatalogRepository reads catalog metadata through a warehouse client.
// The client is passed per call because it depends on the caller's credential.
type CatalogRepository struct {
	builder *queries.Builder
}

func NewCatalogRepository(builder *queries.Builder) *CatalogRepository {
	return &CatalogRepository{builder: builder}
}

// ListCatalogs returns catalogs in warehouse order (by name). Rows without a name are skipped.
func (r *CatalogRepository) ListCatalogs(ctx context.Context, client warehouse.Client) ([]models.Catalog, error) {
	rows, err := warehouse.Run(ctx, client, r.builder.CatalogsQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list catalogs: %w", err)
	}

	catalogs := make([]models.Catalog, 0, len(rows))
	for _, row := range rows {
		name := cellAt(row, 0)
		if name == nil {
			continue
		}
		catalogs = append(catalogs, models.Catalog{
			Name:    *name,
			Comment: cellAt(row, 1),
			Owner:   cellAt(row, 2),
		})
	}
	return catalogs, nil
}

// ListSchemas returns the schemas of a catalog ordered by name.
// A row without a catalog name is attributed to the requested catalog.
func (r *CatalogRepository) ListSchemas(ctx context.Context, client warehouse.Client, catalog string) ([]models.Schema, error) {
	query, err := r.builder.SchemasQuery(catalog)
	if err != nil {
		return nil, err
	}

	rows, err := warehouse.Run(ctx, client, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	schemas := make([]models.Schema, 0, len(rows))
	for _, row := range rows {
		name := cellAt(row, 0)
		if name == nil {
			continue
		}
		catalogName := catalog
		if c := cellAt(row, 1); c != nil && *c != "" {
			catalogName = *c
		}
		schemas = append(schemas, models.Schema{
			Name:        *name,
			CatalogName: catalogName,
			Comment:     cellAt(row, 2),
			Owner:       cellAt(row, 3),
		})
	}
	return schemas, nil
}

// GetSchemaColumns returns the raw column/constraint rows of a schema.
func (r *CatalogRepository) GetSchemaColumns(ctx context.Context, client warehouse.Client, catalog, schema string) ([]models.MetadataRow, error) {
	query, err := r.builder.ERDQuery(catalog, schema)
	if err != nil {
		return nil, err
	}

	rows, err := warehouse.Run(ctx, client, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s.%s: %w", catalog, schema, err)
	}
	return rows, nil
}

func cellAt(row models.MetadataRow, i int) *string {
	if i >= len(row) {
		return nil
	}
	return row[i]
}
