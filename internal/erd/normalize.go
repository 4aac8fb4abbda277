// Package erd turns flat information-schema rows into an entity-relationship model.
package erd

import (
	"sort"
	"strconv"
	"strings"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/queries"
)

const foreignKey = "FOREIGN KEY"

// Normalize builds the ERD of one schema from rows shaped like queries.Builder.ERDQuery.
//
// The metadata query yields one row per (column, constraint it takes part in), so the
// same column and the same foreign-key edge can arrive many times. Each column is kept
// once per table with the annotation of its first row; each edge is kept once per
// (source table, source column, target table, target column), first row wins.
// Tables and relationships keep first-seen order; columns are stably sorted by ordinal
// position. Rows are read in a single pass and the input is not modified.
func Normalize(catalogName, schemaName string, rows []models.MetadataRow) models.ERD {
	var tableOrder []string
	tableColumns := make(map[string][]models.Column)
	seenColumns := make(map[string]map[string]struct{})

	relationships := make([]models.Relationship, 0)
	seenRelationships := make(map[string]struct{})

	for _, row := range rows {
		tableName := value(row, queries.ERDColTableName)
		columnName := value(row, queries.ERDColColumnName)
		constraintType := cell(row, queries.ERDColConstraintType)
		constraintName := cell(row, queries.ERDColConstraintName)
		refSchema := cell(row, queries.ERDColReferencedSchema)
		refTable := cell(row, queries.ERDColReferencedTable)
		refColumn := cell(row, queries.ERDColReferencedColumn)

		cols, known := seenColumns[tableName]
		if !known {
			cols = make(map[string]struct{})
			seenColumns[tableName] = cols
			tableOrder = append(tableOrder, tableName)
		}

		if _, dup := cols[columnName]; !dup {
			cols[columnName] = struct{}{}
			tableColumns[tableName] = append(tableColumns[tableName], models.Column{
				ColumnName:            columnName,
				OrdinalPosition:       ordinal(cell(row, queries.ERDColOrdinalPosition)),
				DataType:              value(row, queries.ERDColDataType),
				IsNullable:            value(row, queries.ERDColIsNullable),
				ConstraintType:        constraintType,
				ConstraintName:        constraintName,
				ReferencedTableSchema: refSchema,
				ReferencedTableName:   refTable,
				ReferencedColumnName:  refColumn,
			})
		}

		if deref(constraintType) != foreignKey || deref(refTable) == "" || deref(constraintName) == "" {
			continue
		}

		key := tableName + "." + columnName + "->" + deref(refTable) + "." + deref(refColumn)
		if _, dup := seenRelationships[key]; dup {
			continue
		}
		seenRelationships[key] = struct{}{}

		targetSchema := deref(refSchema)
		if targetSchema == "" {
			targetSchema = schemaName
		}
		relationships = append(relationships, models.Relationship{
			SourceTable:       tableName,
			SourceColumn:      columnName,
			TargetTableSchema: targetSchema,
			TargetTable:       deref(refTable),
			TargetColumn:      deref(refColumn),
			ConstraintName:    deref(constraintName),
		})
	}

	tables := make([]models.Table, 0, len(tableOrder))
	for _, name := range tableOrder {
		cols := tableColumns[name]
		sort.SliceStable(cols, func(i, j int) bool {
			return cols[i].OrdinalPosition < cols[j].OrdinalPosition
		})
		tables = append(tables, models.Table{TableName: name, Columns: cols})
	}

	return models.ERD{
		CatalogName:   catalogName,
		SchemaName:    schemaName,
		Tables:        tables,
		Relationships: relationships,
	}
}

// cell returns a copy of the i-th cell; short rows read as NULL.
func cell(row models.MetadataRow, i int) *string {
	if i >= len(row) || row[i] == nil {
		return nil
	}
	v := *row[i]
	return &v
}

func value(row models.MetadataRow, i int) string {
	return deref(cell(row, i))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ordinal parses an ordinal position; absent or unparsable values count as 0.
func ordinal(s *string) int {
	if s == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return 0
	}
	return n
}
