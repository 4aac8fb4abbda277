// Package warehousetest provides an in-memory warehouse.Client for tests.
package warehousetest

import (
	"context"
	"sync"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/warehouse"
)

// FakeClient records submitted statements and answers with canned results.
type FakeClient struct {
	Warehouses []warehouse.Warehouse
	ListErr    error
	Response   *warehouse.StatementResponse
	ExecuteErr error
	User       *models.User
	UserErr    error
	Token      string

	mu         sync.Mutex
	statements []warehouse.StatementRequest
	closed     bool
}

// NewSucceeding returns a client with one warehouse whose statements succeed with rows.
func NewSucceeding(rows [][]*string) *FakeClient {
	return &FakeClient{
		Warehouses: []warehouse.Warehouse{{ID: "wh-1", Name: "Starter Warehouse"}},
		Response:   &warehouse.StatementResponse{StatementID: "stmt-1", State: warehouse.StateSucceeded, Rows: rows},
	}
}

func (f *FakeClient) ListWarehouses(ctx context.Context) ([]warehouse.Warehouse, error) {
	return f.Warehouses, f.ListErr
}

func (f *FakeClient) ExecuteStatement(ctx context.Context, req warehouse.StatementRequest) (*warehouse.StatementResponse, error) {
	f.mu.Lock()
	f.statements = append(f.statements, req)
	f.mu.Unlock()
	return f.Response, f.ExecuteErr
}

func (f *FakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return f.User, f.UserErr
}

func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Statements returns every request submitted so far.
func (f *FakeClient) Statements() []warehouse.StatementRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]warehouse.StatementRequest(nil), f.statements...)
}

func (f *FakeClient) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Row builds a result row; nil arguments become NULL cells.
func Row(cells ...any) []*string {
	row := make([]*string, len(cells))
	for i, c := range cells {
		if s, ok := c.(string); ok {
			v := s
			row[i] = &v
		}
	}
	return row
}
