package erd

import (
	"fmt"
	"strings"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/queries"
)

const primaryKey = "PRIMARY KEY"

// KeySet holds columns as "table.column".
type KeySet map[string]bool

// PrimaryKeys collects every column any row reports as part of a primary key.
// A column's own ConstraintType only reflects its first row, so it cannot be used for this.
func PrimaryKeys(rows []models.MetadataRow) KeySet {
	keys := make(KeySet)
	for _, row := range rows {
		if value(row, queries.ERDColConstraintType) == primaryKey {
			keys[value(row, queries.ERDColTableName)+"."+value(row, queries.ERDColColumnName)] = true
		}
	}
	return keys
}

// Mermaid renders an ERD as a Mermaid erDiagram. Columns in primaryKeys are tagged PK,
// relationship sources are tagged FK.
func Mermaid(erd models.ERD, primaryKeys KeySet) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	fkColumns := make(map[string]bool)
	if len(erd.Relationships) > 0 {
		seen := make(map[string]bool)
		for _, rel := range erd.Relationships {
			fkColumns[rel.SourceTable+"."+rel.SourceColumn] = true

			key := rel.SourceTable + ":" + rel.TargetTableSchema + "." + rel.TargetTable
			if seen[key] {
				continue
			}
			seen[key] = true

			sb.WriteString(fmt.Sprintf("    %s }o--|| %s : %q\n",
				entityName(erd.SchemaName, "", rel.SourceTable),
				entityName(erd.SchemaName, rel.TargetTableSchema, rel.TargetTable),
				rel.ConstraintName))
		}
		sb.WriteString("\n")
	}

	for _, table := range erd.Tables {
		sb.WriteString(fmt.Sprintf("    %s {\n", entityName(erd.SchemaName, "", table.TableName)))

		for _, col := range table.Columns {
			var keys []string
			if primaryKeys[table.TableName+"."+col.ColumnName] {
				keys = append(keys, "PK")
			}
			if fkColumns[table.TableName+"."+col.ColumnName] {
				keys = append(keys, "FK")
			}

			annotations := ""
			if len(keys) > 0 {
				annotations = " " + strings.Join(keys, ",")
			}

			sb.WriteString(fmt.Sprintf("        %s %s%s\n",
				simplifyDataType(col.DataType),
				attributeName(col.ColumnName),
				annotations))
		}

		sb.WriteString("    }\n\n")
	}

	return sb.String()
}

// entityName upper-cases a table name and qualifies it when it lives in another schema.
func entityName(currentSchema, schema, table string) string {
	name := table
	if schema != "" && schema != currentSchema {
		name = schema + "_" + table
	}
	return attributeName(strings.ToUpper(name))
}

// attributeName replaces characters Mermaid does not accept in names.
func attributeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}

func simplifyDataType(dataType string) string {
	dt := strings.ToLower(strings.TrimSpace(dataType))

	switch {
	case dt == "":
		return "unknown"
	case dt == "integer" || dt == "int":
		return "int"
	case dt == "bigint" || dt == "long":
		return "bigint"
	case dt == "smallint" || dt == "short":
		return "smallint"
	case strings.HasPrefix(dt, "character varying"):
		return "varchar"
	case strings.HasPrefix(dt, "character"):
		return "char"
	case dt == "text" || dt == "string":
		return "string"
	case strings.HasPrefix(dt, "timestamp without time zone") || dt == "timestamp_ntz":
		return "timestamp"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "timestamptz"
	case strings.HasPrefix(dt, "time without time zone"):
		return "time"
	case dt == "date":
		return "date"
	case dt == "boolean":
		return "boolean"
	case strings.HasPrefix(dt, "numeric"):
		return "numeric"
	case strings.HasPrefix(dt, "decimal"):
		return "decimal"
	case dt == "real" || dt == "float":
		return "float"
	case dt == "double precision" || dt == "double":
		return "double"
	case dt == "json" || dt == "jsonb":
		return dt
	case dt == "uuid":
		return "uuid"
	case dt == "bytea" || dt == "binary":
		return "binary"
	case strings.HasPrefix(dt, "array") || strings.HasSuffix(dt, "[]"):
		return "array"
	case strings.HasPrefix(dt, "map"):
		return "map"
	case strings.HasPrefix(dt, "struct"):
		return "struct"
	default:
		return attributeName(dataType)
	}
}
