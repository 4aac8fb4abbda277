package warehouse

import (
	"context"
	"fmt"

	"erd_visualizer/internal/apperrors"
	"erd_visualizer/internal/models"
)

// Run executes statement on the first warehouse the client can see and returns its rows.
//
// The first listed warehouse is always used: there is no health check and no failover.
// A missing warehouse or warehouse id fails with apperrors.ErrNoWarehouseAvailable
// before anything is submitted. Any terminal state other than SUCCEEDED fails with a
// *apperrors.QueryExecutionError.
func Run(ctx context.Context, client Client, statement string) ([]models.MetadataRow, error) {
	warehouses, err := client.ListWarehouses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	if len(warehouses) == 0 {
		return nil, &apperrors.WarehouseUnavailableError{Reason: "No SQL warehouse available to execute the query"}
	}

	warehouseID := warehouses[0].ID
	if warehouseID == "" {
		return nil, &apperrors.WarehouseUnavailableError{Reason: "SQL warehouse has no valid ID"}
	}

	resp, err := client.ExecuteStatement(ctx, StatementRequest{
		WarehouseID: warehouseID,
		Statement:   statement,
		WaitTimeout: WaitTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}

	if resp == nil || resp.State != StateSucceeded {
		qe := &apperrors.QueryExecutionError{}
		if resp != nil {
			qe.State = string(resp.State)
			if resp.Error != nil {
				qe.Detail = resp.Error.Message
				if qe.Detail == "" {
					qe.Detail = resp.Error.ErrorCode
				}
			}
		}
		return nil, qe
	}

	rows := make([]models.MetadataRow, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		rows = append(rows, models.MetadataRow(row))
	}
	return rows, nil
}
