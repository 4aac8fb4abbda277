package models

// MetadataRow is one row of a warehouse result set: one nullable cell per projected column.
type MetadataRow []*string

// Column is a table column as seen in the information schema, annotated with the
// first constraint it was reported with.
type Column struct {
	ColumnName            string  `json:"column_name"`
	OrdinalPosition       int     `json:"ordinal_position"`
	DataType              string  `json:"data_type"`
	IsNullable            string  `json:"is_nullable"`
	ConstraintType        *string `json:"constraint_type"`
	ConstraintName        *string `json:"constraint_name"`
	ReferencedTableSchema *string `json:"referenced_table_schema"`
	ReferencedTableName   *string `json:"referenced_table_name"`
	ReferencedColumnName  *string `json:"referenced_column_name"`
}

type Table struct {
	TableName string   `json:"table_name"`
	Columns   []Column `json:"columns"`
}

// Relationship is one foreign-key edge. The target may live outside the queried schema.
type Relationship struct {
	SourceTable       string `json:"source_table"`
	SourceColumn      string `json:"source_column"`
	TargetTableSchema string `json:"target_table_schema"`
	TargetTable       string `json:"target_table"`
	TargetColumn      string `json:"target_column"`
	ConstraintName    string `json:"constraint_name"`
}

// ERD is the entity-relationship model of one schema.
type ERD struct {
	CatalogName   string         `json:"catalog_name"`
	SchemaName    string         `json:"schema_name"`
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
}
