package erd

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erd_visualizer/internal/models"
)

// row builds an ERD query row; nil arguments become NULL cells.
// Catalog and schema columns are filled in so indices match the real projection.
func row(table, column string, ordinal any, dataType, nullable string, constraintType, constraintName, refSchema, refTable, refColumn any) models.MetadataRow {
	cells := []any{"main", "sales", table, column, ordinal, dataType, nullable, constraintType, constraintName, refSchema, refTable, refColumn}
	out := make(models.MetadataRow, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			s := v
			out[i] = &s
		case int:
			s := fmt.Sprint(v)
			out[i] = &s
		}
	}
	return out
}

func columnNames(t models.Table) []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.ColumnName)
	}
	return names
}

func TestNormalize_OrdersExample(t *testing.T) {
	rows := []models.MetadataRow{
		row("orders", "id", 1, "bigint", "NO", nil, nil, nil, nil, nil),
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk1", "sales", "customers", "id"),
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk1", "sales", "customers", "id"),
	}

	erd := Normalize("main", "sales", rows)

	assert.Equal(t, "main", erd.CatalogName)
	assert.Equal(t, "sales", erd.SchemaName)
	require.Len(t, erd.Tables, 1)
	assert.Equal(t, "orders", erd.Tables[0].TableName)
	assert.Equal(t, []string{"id", "cust_id"}, columnNames(erd.Tables[0]))

	require.Len(t, erd.Relationships, 1)
	assert.Equal(t, models.Relationship{
		SourceTable:       "orders",
		SourceColumn:      "cust_id",
		TargetTableSchema: "sales",
		TargetTable:       "customers",
		TargetColumn:      "id",
		ConstraintName:    "fk1",
	}, erd.Relationships[0])
}

func TestNormalize_EmptyInput(t *testing.T) {
	erd := Normalize("main", "empty", nil)

	assert.NotNil(t, erd.Tables)
	assert.NotNil(t, erd.Relationships)
	assert.Empty(t, erd.Tables)
	assert.Empty(t, erd.Relationships)
}

func TestNormalize_UnconstrainedColumn(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("notes", "body", 1, "string", "YES", nil, nil, nil, nil, nil),
	})

	require.Len(t, erd.Tables, 1)
	col := erd.Tables[0].Columns[0]
	assert.Equal(t, "body", col.ColumnName)
	assert.Equal(t, "string", col.DataType)
	assert.Equal(t, "YES", col.IsNullable)
	assert.Nil(t, col.ConstraintType)
	assert.Nil(t, col.ConstraintName)
	assert.Nil(t, col.ReferencedTableSchema)
	assert.Nil(t, col.ReferencedTableName)
	assert.Nil(t, col.ReferencedColumnName)
	assert.Empty(t, erd.Relationships)
}

func TestNormalize_FirstConstraintWinsForColumn(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("order_items", "order_id", 1, "bigint", "NO", "PRIMARY KEY", "order_items_pk", nil, nil, nil),
		row("order_items", "order_id", 1, "bigint", "NO", "FOREIGN KEY", "order_items_order_fk", "sales", "orders", "id"),
	})

	require.Len(t, erd.Tables, 1)
	require.Len(t, erd.Tables[0].Columns, 1)
	col := erd.Tables[0].Columns[0]
	assert.Equal(t, "PRIMARY KEY", *col.ConstraintType)
	assert.Equal(t, "order_items_pk", *col.ConstraintName)
	assert.Nil(t, col.ReferencedTableName)

	// The later foreign-key row still contributes its edge.
	require.Len(t, erd.Relationships, 1)
	assert.Equal(t, "order_items_order_fk", erd.Relationships[0].ConstraintName)
}

func TestNormalize_RelationshipDedupIgnoresConstraintName(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk_a", "sales", "customers", "id"),
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk_b", "sales", "customers", "id"),
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk_c", "crm", "customers", "id"),
	})

	require.Len(t, erd.Relationships, 1)
	assert.Equal(t, "fk_a", erd.Relationships[0].ConstraintName)
	assert.Equal(t, "sales", erd.Relationships[0].TargetTableSchema)
}

func TestNormalize_DistinctTargetsAreDistinctRelationships(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("order_items", "sku", 2, "string", "NO", "FOREIGN KEY", "product_fk", "sales", "products", "sku"),
		row("order_items", "sku", 2, "string", "NO", "FOREIGN KEY", "product_fk", "sales", "products", "variant"),
	})

	require.Len(t, erd.Tables[0].Columns, 1)
	require.Len(t, erd.Relationships, 2)
	assert.Equal(t, "sku", erd.Relationships[0].TargetColumn)
	assert.Equal(t, "variant", erd.Relationships[1].TargetColumn)
}

func TestNormalize_ForeignKeyRequirements(t *testing.T) {
	tests := []struct {
		name string
		row  models.MetadataRow
	}{
		{name: "not a foreign key", row: row("t", "c", 1, "int", "NO", "UNIQUE", "uq", "s", "other", "id")},
		{name: "missing referenced table", row: row("t", "c", 1, "int", "NO", "FOREIGN KEY", "fk", "s", nil, "id")},
		{name: "missing constraint name", row: row("t", "c", 1, "int", "NO", "FOREIGN KEY", nil, "s", "other", "id")},
		{name: "empty referenced table", row: row("t", "c", 1, "int", "NO", "FOREIGN KEY", "fk", "s", "", "id")},
		{name: "lowercase constraint type", row: row("t", "c", 1, "int", "NO", "foreign key", "fk", "s", "other", "id")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			erd := Normalize("main", "s", []models.MetadataRow{tt.row})
			assert.Len(t, erd.Tables, 1)
			assert.Empty(t, erd.Relationships)
		})
	}
}

func TestNormalize_TargetSchemaDefaultsToRequestedSchema(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk1", nil, "customers", "id"),
	})

	require.Len(t, erd.Relationships, 1)
	assert.Equal(t, "sales", erd.Relationships[0].TargetTableSchema)
}

func TestNormalize_TargetOutsideSchemaPassesThrough(t *testing.T) {
	erd := Normalize("main", "sales", []models.MetadataRow{
		row("orders", "region_id", 3, "int", "YES", "FOREIGN KEY", "fk_region", "geo", "regions", "id"),
	})

	require.Len(t, erd.Tables, 1)
	require.Len(t, erd.Relationships, 1)
	assert.Equal(t, "geo", erd.Relationships[0].TargetTableSchema)
	assert.Equal(t, "regions", erd.Relationships[0].TargetTable)
}

func TestNormalize_OrdinalParsing(t *testing.T) {
	erd := Normalize("main", "s", []models.MetadataRow{
		row("t", "b", "2", "int", "NO", nil, nil, nil, nil, nil),
		row("t", "none", nil, "int", "NO", nil, nil, nil, nil, nil),
		row("t", "empty", "", "int", "NO", nil, nil, nil, nil, nil),
		row("t", "junk", "x", "int", "NO", nil, nil, nil, nil, nil),
		row("t", "a", "1", "int", "NO", nil, nil, nil, nil, nil),
	})

	require.Len(t, erd.Tables, 1)
	assert.Equal(t, []string{"none", "empty", "junk", "a", "b"}, columnNames(erd.Tables[0]))
	for _, c := range erd.Tables[0].Columns[:3] {
		assert.Equal(t, 0, c.OrdinalPosition)
	}
}

func TestNormalize_ShortRowsReadAsNull(t *testing.T) {
	table, column := "t", "c"
	erd := Normalize("main", "s", []models.MetadataRow{{nil, nil, &table, &column}})

	require.Len(t, erd.Tables, 1)
	col := erd.Tables[0].Columns[0]
	assert.Equal(t, "c", col.ColumnName)
	assert.Equal(t, 0, col.OrdinalPosition)
	assert.Nil(t, col.ConstraintType)
}

func TestNormalize_TablesInFirstSeenOrder(t *testing.T) {
	erd := Normalize("main", "s", []models.MetadataRow{
		row("zebra", "id", 1, "int", "NO", nil, nil, nil, nil, nil),
		row("apple", "id", 1, "int", "NO", nil, nil, nil, nil, nil),
		row("zebra", "name", 2, "string", "YES", nil, nil, nil, nil, nil),
		row("mango", "id", 1, "int", "NO", nil, nil, nil, nil, nil),
	})

	names := make([]string, 0, len(erd.Tables))
	for _, tbl := range erd.Tables {
		names = append(names, tbl.TableName)
	}
	assert.Equal(t, []string{"zebra", "apple", "mango"}, names)
	assert.Equal(t, []string{"id", "name"}, columnNames(erd.Tables[0]))
}

func TestNormalize_StableSortKeepsArrivalOrderOnTies(t *testing.T) {
	erd := Normalize("main", "s", []models.MetadataRow{
		row("t", "second", 2, "int", "NO", nil, nil, nil, nil, nil),
		row("t", "tie_a", 1, "int", "NO", nil, nil, nil, nil, nil),
		row("t", "tie_b", 1, "int", "NO", nil, nil, nil, nil, nil),
	})

	assert.Equal(t, []string{"tie_a", "tie_b", "second"}, columnNames(erd.Tables[0]))
}

func TestNormalize_DoesNotAliasInput(t *testing.T) {
	rows := []models.MetadataRow{
		row("orders", "cust_id", 2, "bigint", "NO", "FOREIGN KEY", "fk1", "sales", "customers", "id"),
	}
	erd := Normalize("main", "sales", rows)

	*rows[0][7] = "CHANGED"
	assert.Equal(t, "FOREIGN KEY", *erd.Tables[0].Columns[0].ConstraintType)
}

// randomRows builds a shuffled row set with duplicated constraint rows per column.
func randomRows(r *rand.Rand) []models.MetadataRow {
	var rows []models.MetadataRow
	tables := 1 + r.Intn(4)
	for ti := 0; ti < tables; ti++ {
		table := fmt.Sprintf("table_%d", ti)
		columns := 1 + r.Intn(6)
		for ci := 1; ci <= columns; ci++ {
			column := fmt.Sprintf("col_%d", ci)
			copies := 1 + r.Intn(3)
			for k := 0; k < copies; k++ {
				if r.Intn(2) == 0 {
					rows = append(rows, row(table, column, ci, "int", "NO", nil, nil, nil, nil, nil))
					continue
				}
				target := fmt.Sprintf("table_%d", r.Intn(4))
				rows = append(rows, row(table, column, ci, "int", "NO", "FOREIGN KEY",
					fmt.Sprintf("fk_%d", r.Intn(3)), "s", target, "id"))
			}
		}
	}
	r.Shuffle(len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
	return rows
}

func TestNormalize_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for iter := 0; iter < 200; iter++ {
		rows := randomRows(r)
		erd := Normalize("main", "s", rows)

		distinctColumns := make(map[string]map[string]bool)
		distinctEdges := make(map[string]bool)
		for _, rw := range rows {
			table, column := *rw[2], *rw[3]
			if distinctColumns[table] == nil {
				distinctColumns[table] = make(map[string]bool)
			}
			distinctColumns[table][column] = true
			if rw[7] != nil {
				distinctEdges[table+"."+column+"->"+*rw[10]+"."+*rw[11]] = true
			}
		}

		require.Len(t, erd.Tables, len(distinctColumns))
		for _, tbl := range erd.Tables {
			assert.Len(t, tbl.Columns, len(distinctColumns[tbl.TableName]))
			for i := 1; i < len(tbl.Columns); i++ {
				assert.LessOrEqual(t, tbl.Columns[i-1].OrdinalPosition, tbl.Columns[i].OrdinalPosition)
			}
		}

		assert.Len(t, erd.Relationships, len(distinctEdges))
		for _, rel := range erd.Relationships {
			assert.True(t, distinctColumns[rel.SourceTable][rel.SourceColumn], "relationship source must be an emitted column")
		}

		assert.Equal(t, erd, Normalize("main", "s", rows), "normalization must be idempotent")
	}
}
