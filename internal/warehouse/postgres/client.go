package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"erd_visualizer/internal/database"
	"erd_visualizer/internal/models"
	"erd_visualizer/internal/warehouse"
)

// perCallerMaxConns bounds the pool opened for a single on-behalf-of request.
const perCallerMaxConns = 2

// Client exposes one PostgreSQL server as a single warehouse.
type Client struct {
	db          *sql.DB
	warehouseID string
	logger      *zap.Logger
}

// NewClient wraps an open pool. The client takes ownership of db and closes it on Close.
func NewClient(db *sql.DB, warehouseID string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{db: db, warehouseID: warehouseID, logger: logger}
}

// NewFactory returns a warehouse.Factory that connects as the configured user with the
// caller's access token as password, the way managed PostgreSQL services accept OAuth
// and IAM tokens.
func NewFactory(base *pgx.ConnConfig, warehouseID string, logger *zap.Logger) warehouse.Factory {
	return func(ctx context.Context, token string) (warehouse.Client, error) {
		cfg := base.Copy()
		cfg.Password = token

		db, err := database.Open(ctx, cfg, perCallerMaxConns, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect on behalf of caller: %w", err)
		}
		return NewClient(db, warehouseID, logger), nil
	}
}

func (c *Client) ListWarehouses(ctx context.Context) ([]warehouse.Warehouse, error) {
	return []warehouse.Warehouse{{ID: c.warehouseID, Name: "postgres", State: "RUNNING"}}, nil
}

// ExecuteStatement runs the statement under req.WaitTimeout. Statement failures are
// reported as FAILED (or CANCELED on timeout) with the server's error detail.
func (c *Client) ExecuteStatement(ctx context.Context, req warehouse.StatementRequest) (*warehouse.StatementResponse, error) {
	if req.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.WaitTimeout)
		defer cancel()
	}

	resp := &warehouse.StatementResponse{StatementID: uuid.NewString()}

	rows, err := c.collect(ctx, req.Statement)
	if err != nil {
		resp.State, resp.Error = classify(ctx, err)
		c.logger.Debug("Statement failed",
			zap.String("statement_id", resp.StatementID),
			zap.String("state", string(resp.State)),
			zap.Error(err),
		)
		return resp, nil
	}

	resp.State = warehouse.StateSucceeded
	resp.Rows = rows
	return resp, nil
}

func (c *Client) collect(ctx context.Context, statement string) ([][]*string, error) {
	rows, err := c.db.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := make([][]*string, 0)
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]*string, len(columns))
		for i, cell := range cells {
			if cell.Valid {
				v := cell.String
				row[i] = &v
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func classify(ctx context.Context, err error) (warehouse.StatementState, *warehouse.StatementError) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return warehouse.StateCanceled, &warehouse.StatementError{
			ErrorCode: "DEADLINE_EXCEEDED",
			Message:   "statement did not finish within the wait timeout",
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return warehouse.StateFailed, &warehouse.StatementError{ErrorCode: pgErr.Code, Message: pgErr.Message}
	}
	return warehouse.StateFailed, &warehouse.StatementError{Message: err.Error()}
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var name string
	if err := c.db.QueryRowContext(ctx, "SELECT current_user").Scan(&name); err != nil {
		return nil, fmt.Errorf("failed to query current user: %w", err)
	}

	active := true
	return &models.User{UserName: name, DisplayName: name, Active: &active}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}
