package queries

import (
	"fmt"
	"strings"
)

// Dialect selects the flavour of information-schema SQL to generate.
type Dialect string

const (
	DialectDatabricks Dialect = "databricks"
	DialectPostgres   Dialect = "postgres"
)

// ParseDialect maps a backend name to its dialect.
func ParseDialect(name string) (Dialect, error) {
	switch d := Dialect(strings.ToLower(strings.TrimSpace(name))); d {
	case DialectDatabricks, DialectPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported SQL dialect %q", name)
	}
}

// Column positions of the ERD query projection.
const (
	ERDColTableCatalog = iota
	ERDColTableSchema
	ERDColTableName
	ERDColColumnName
	ERDColOrdinalPosition
	ERDColDataType
	ERDColIsNullable
	ERDColConstraintType
	ERDColConstraintName
	ERDColReferencedSchema
	ERDColReferencedTable
	ERDColReferencedColumn

	ERDColumnCount
)

// Builder produces the metadata statements for one dialect.
// It has no state beyond the dialect and is safe for concurrent use.
type Builder struct {
	dialect Dialect
}

func NewBuilder(dialect Dialect) *Builder {
	return &Builder{dialect: dialect}
}

func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// CatalogsQuery lists catalogs as (catalog_name, comment, catalog_owner).
func (b *Builder) CatalogsQuery() string {
	if b.dialect == DialectPostgres {
		return `
SELECT datname AS catalog_name,
       shobj_description(oid, 'pg_database') AS comment,
       pg_get_userbyid(datdba) AS catalog_owner
FROM pg_catalog.pg_database
WHERE NOT datistemplate
ORDER BY datname`
	}
	return `
SELECT catalog_name, comment, catalog_owner
FROM system.information_schema.catalogs
ORDER BY catalog_name`
}

// SchemasQuery lists the schemas of a catalog as (schema_name, catalog_name, comment, schema_owner).
func (b *Builder) SchemasQuery(catalog string) (string, error) {
	if err := ValidateIdentifier("catalog", catalog); err != nil {
		return "", err
	}

	if b.dialect == DialectPostgres {
		return fmt.Sprintf(`
SELECT s.schema_name,
       s.catalog_name,
       obj_description(n.oid, 'pg_namespace') AS comment,
       s.schema_owner
FROM information_schema.schemata s
LEFT JOIN pg_catalog.pg_namespace n ON n.nspname = s.schema_name
WHERE s.catalog_name = %s
ORDER BY s.schema_name`, quoteLiteral(catalog)), nil
	}
	return fmt.Sprintf(`
SELECT schema_name, catalog_name, comment, schema_owner
FROM %s.information_schema.schemata
ORDER BY schema_name`, quoteBacktick(catalog)), nil
}

// ERDQuery returns one row per (column, constraint the column takes part in) for a schema.
// Columns without constraints appear once with NULL constraint fields.
// The projection order is described by the ERDCol* constants.
func (b *Builder) ERDQuery(catalog, schema string) (string, error) {
	if err := ValidateIdentifier("catalog", catalog); err != nil {
		return "", err
	}
	if err := ValidateIdentifier("schema", schema); err != nil {
		return "", err
	}

	if b.dialect == DialectPostgres {
		return b.postgresERDQuery(catalog, schema), nil
	}
	return b.databricksERDQuery(catalog, schema), nil
}

func (b *Builder) databricksERDQuery(catalog, schema string) string {
	infoSchema := quoteBacktick(catalog) + ".information_schema"
	return fmt.Sprintf(`
SELECT
  c.table_catalog,
  c.table_schema,
  c.table_name,
  c.column_name,
  c.ordinal_position,
  c.data_type,
  c.is_nullable,
  tc.constraint_type,
  tc.constraint_name,
  kcu_ref.table_schema AS referenced_table_schema,
  kcu_ref.table_name AS referenced_table_name,
  kcu_ref.column_name AS referenced_column_name
FROM %[1]s.columns c
LEFT JOIN %[1]s.key_column_usage kcu
  ON c.table_catalog = kcu.table_catalog
  AND c.table_schema = kcu.table_schema
  AND c.table_name = kcu.table_name
  AND c.column_name = kcu.column_name
LEFT JOIN %[1]s.table_constraints tc
  ON kcu.constraint_catalog = tc.constraint_catalog
  AND kcu.constraint_schema = tc.constraint_schema
  AND kcu.constraint_name = tc.constraint_name
LEFT JOIN %[1]s.referential_constraints rc
  ON kcu.constraint_catalog = rc.constraint_catalog
  AND kcu.constraint_schema = rc.constraint_schema
  AND kcu.constraint_name = rc.constraint_name
LEFT JOIN %[1]s.key_column_usage kcu_ref
  ON rc.unique_constraint_catalog = kcu_ref.constraint_catalog
  AND rc.unique_constraint_schema = kcu_ref.constraint_schema
  AND rc.unique_constraint_name = kcu_ref.constraint_name
WHERE c.table_schema = %[2]s
ORDER BY c.table_name, c.ordinal_position`, infoSchema, quoteLiteral(schema))
}

// PostgreSQL cannot address another database's information_schema, so the catalog
// becomes a filter and multi-column keys are paired by position.
func (b *Builder) postgresERDQuery(catalog, schema string) string {
	return fmt.Sprintf(`
SELECT
  c.table_catalog,
  c.table_schema,
  c.table_name,
  c.column_name,
  c.ordinal_position,
  c.data_type,
  c.is_nullable,
  tc.constraint_type,
  tc.constraint_name,
  kcu_ref.table_schema AS referenced_table_schema,
  kcu_ref.table_name AS referenced_table_name,
  kcu_ref.column_name AS referenced_column_name
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage kcu
  ON c.table_catalog = kcu.table_catalog
  AND c.table_schema = kcu.table_schema
  AND c.table_name = kcu.table_name
  AND c.column_name = kcu.column_name
LEFT JOIN information_schema.table_constraints tc
  ON kcu.constraint_catalog = tc.constraint_catalog
  AND kcu.constraint_schema = tc.constraint_schema
  AND kcu.constraint_name = tc.constraint_name
LEFT JOIN information_schema.referential_constraints rc
  ON kcu.constraint_catalog = rc.constraint_catalog
  AND kcu.constraint_schema = rc.constraint_schema
  AND kcu.constraint_name = rc.constraint_name
LEFT JOIN information_schema.key_column_usage kcu_ref
  ON rc.unique_constraint_catalog = kcu_ref.constraint_catalog
  AND rc.unique_constraint_schema = kcu_ref.constraint_schema
  AND rc.unique_constraint_name = kcu_ref.constraint_name
  AND kcu_ref.ordinal_position = kcu.position_in_unique_constraint
WHERE c.table_catalog = %s
  AND c.table_schema = %s
ORDER BY c.table_name, c.ordinal_position`, quoteLiteral(catalog), quoteLiteral(schema))
}

