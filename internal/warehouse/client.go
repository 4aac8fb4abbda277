package warehouse

import (
	"context"
	"time"

	"erd_visualizer/internal/models"
)

// WaitTimeout is how long a statement may run before the request gives up on it.
const WaitTimeout = 30 * time.Second

// StatementState is the lifecycle state reported for a submitted statement.
type StatementState string

const (
	StatePending   StatementState = "PENDING"
	StateRunning   StatementState = "RUNNING"
	StateSucceeded StatementState = "SUCCEEDED"
	StateFailed    StatementState = "FAILED"
	StateCanceled  StatementState = "CANCELED"
	StateClosed    StatementState = "CLOSED"
)

// Warehouse is a compute endpoint able to run SQL statements.
type Warehouse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

type StatementRequest struct {
	WarehouseID string
	Statement   string
	WaitTimeout time.Duration
}

type StatementError struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// StatementResponse is the outcome of a statement once the wait is over.
// Rows is only meaningful when State is StateSucceeded.
type StatementResponse struct {
	StatementID string
	State       StatementState
	Rows        [][]*string
	Error       *StatementError
}

// Client is the warehouse backend, bound to one credential.
type Client interface {
	// ListWarehouses returns the compute endpoints visible to the credential.
	ListWarehouses(ctx context.Context) ([]Warehouse, error)

	// ExecuteStatement submits a statement and blocks up to req.WaitTimeout.
	// A statement that fails is reported through the response state, not the error;
	// the error is reserved for transport failures.
	ExecuteStatement(ctx context.Context, req StatementRequest) (*StatementResponse, error)

	// CurrentUser returns the identity behind the credential.
	CurrentUser(ctx context.Context) (*models.User, error)

	// Close releases resources held by the client.
	Close() error
}

// Factory builds a client acting on behalf of the holder of token.
type Factory func(ctx context.Context, token string) (Client, error)
