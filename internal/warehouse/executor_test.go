package warehouse_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"erd_visualizer/internal/apperrors"
	"erd_visualizer/internal/warehouse"
	"erd_visualizer/internal/warehouse/warehousetest"
)

func TestRun_Succeeds(t *testing.T) {
	client := warehousetest.NewSucceeding([][]*string{
		warehousetest.Row("main", "default catalog", "admins"),
		warehousetest.Row("samples", nil, nil),
	})

	rows, err := warehouse.Run(context.Background(), client, "SELECT 1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "main", *rows[0][0])
	assert.Nil(t, rows[1][1])

	stmts := client.Statements()
	require.Len(t, stmts, 1)
	assert.Equal(t, "wh-1", stmts[0].WarehouseID)
	assert.Equal(t, "SELECT 1", stmts[0].Statement)
	assert.Equal(t, warehouse.WaitTimeout, stmts[0].WaitTimeout)
}

func TestRun_AlwaysUsesFirstWarehouse(t *testing.T) {
	client := warehousetest.NewSucceeding(nil)
	client.Warehouses = []warehouse.Warehouse{{ID: "first"}, {ID: "second"}}

	rows, err := warehouse.Run(context.Background(), client, "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
	assert.Equal(t, "first", client.Statements()[0].WarehouseID)
}

func TestRun_NoWarehouse(t *testing.T) {
	tests := []struct {
		name       string
		warehouses []warehouse.Warehouse
		wantMsg    string
	}{
		{name: "empty list", warehouses: nil, wantMsg: "No SQL warehouse available"},
		{name: "first has no id", warehouses: []warehouse.Warehouse{{Name: "broken"}, {ID: "ok"}}, wantMsg: "no valid ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := warehousetest.NewSucceeding(nil)
			client.Warehouses = tt.warehouses

			_, err := warehouse.Run(context.Background(), client, "SELECT 1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrNoWarehouseAvailable))
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Empty(t, client.Statements(), "no statement may be sent")
		})
	}
}

func TestRun_ListError(t *testing.T) {
	client := warehousetest.NewSucceeding(nil)
	client.ListErr = errors.New("403 forbidden")

	_, err := warehouse.Run(context.Background(), client, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403 forbidden")
	assert.False(t, errors.Is(err, apperrors.ErrNoWarehouseAvailable))
}

func TestRun_ExecutionFailures(t *testing.T) {
	tests := []struct {
		name     string
		response *warehouse.StatementResponse
		wantMsg  string
	}{
		{
			name: "failed with detail",
			response: &warehouse.StatementResponse{
				State: warehouse.StateFailed,
				Error: &warehouse.StatementError{ErrorCode: "BAD_REQUEST", Message: "[TABLE_OR_VIEW_NOT_FOUND] nope"},
			},
			wantMsg: "Query failed: [TABLE_OR_VIEW_NOT_FOUND] nope",
		},
		{
			name: "error code only",
			response: &warehouse.StatementResponse{
				State: warehouse.StateFailed,
				Error: &warehouse.StatementError{ErrorCode: "DEADLINE_EXCEEDED"},
			},
			wantMsg: "Query failed: DEADLINE_EXCEEDED",
		},
		{
			name:     "canceled without detail",
			response: &warehouse.StatementResponse{State: warehouse.StateCanceled},
			wantMsg:  "Query failed: Unknown error",
		},
		{
			name:     "still pending after wait",
			response: &warehouse.StatementResponse{State: warehouse.StatePending},
			wantMsg:  "Query failed: Unknown error",
		},
		{
			name:     "no response",
			response: nil,
			wantMsg:  "Query failed: Unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := warehousetest.NewSucceeding(nil)
			client.Response = tt.response

			_, err := warehouse.Run(context.Background(), client, "SELECT 1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrQueryExecutionFailed))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestRun_TransportError(t *testing.T) {
	client := warehousetest.NewSucceeding(nil)
	client.ExecuteErr = errors.New("connection reset")

	_, err := warehouse.Run(context.Background(), client, "SELECT 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
