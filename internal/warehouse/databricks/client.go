package databricks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"erd_visualizer/internal/models"
	"erd_visualizer/internal/warehouse"
)

const (
	warehousesPath  = "/api/2.0/sql/warehouses"
	statementsPath  = "/api/2.0/sql/statements"
	currentUserPath = "/api/2.0/preview/scim/v2/Me"

	// The statement API accepts waits between 5 and 50 seconds.
	minWait = 5 * time.Second
	maxWait = 50 * time.Second

	maxErrorBody = 4 << 10
)

// Client talks to the Databricks SQL REST API with a bearer token.
type Client struct {
	host       string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the workspace at host authenticated with token.
func NewClient(host, token string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return nil, errors.New("databricks host is required")
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: maxWait + 10*time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{host: host, token: token, httpClient: httpClient, logger: logger}, nil
}

// NewFactory returns a warehouse.Factory creating on-behalf-of clients for host.
func NewFactory(host string, httpClient *http.Client, logger *zap.Logger) warehouse.Factory {
	return func(ctx context.Context, token string) (warehouse.Client, error) {
		if strings.TrimSpace(token) == "" {
			return nil, errors.New("databricks token is required")
		}
		return NewClient(host, token, httpClient, logger)
	}
}

type listWarehousesResponse struct {
	Warehouses []warehouse.Warehouse `json:"warehouses"`
}

func (c *Client) ListWarehouses(ctx context.Context) ([]warehouse.Warehouse, error) {
	var resp listWarehousesResponse
	if err := c.do(ctx, http.MethodGet, warehousesPath, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Warehouses, nil
}

type executeStatementRequest struct {
	WarehouseID   string `json:"warehouse_id"`
	Statement     string `json:"statement"`
	WaitTimeout   string `json:"wait_timeout"`
	OnWaitTimeout string `json:"on_wait_timeout"`
	Disposition   string `json:"disposition"`
	Format        string `json:"format"`
}

type statementResponse struct {
	StatementID string `json:"statement_id"`
	Status      *struct {
		State string                    `json:"state"`
		Error *warehouse.StatementError `json:"error"`
	} `json:"status"`
	Result *resultChunk `json:"result"`
}

// resultChunk is one page of an inline result. NextChunkIndex is set while more pages remain.
type resultChunk struct {
	ChunkIndex     int         `json:"chunk_index"`
	DataArray      [][]*string `json:"data_array"`
	NextChunkIndex *int        `json:"next_chunk_index"`
}

// ExecuteStatement submits the statement inline and cancels it if the wait runs out,
// so a timed out statement surfaces as CANCELED rather than lingering on the warehouse.
func (c *Client) ExecuteStatement(ctx context.Context, req warehouse.StatementRequest) (*warehouse.StatementResponse, error) {
	body := executeStatementRequest{
		WarehouseID:   req.WarehouseID,
		Statement:     req.Statement,
		WaitTimeout:   formatWait(req.WaitTimeout),
		OnWaitTimeout: "CANCEL",
		Disposition:   "INLINE",
		Format:        "JSON_ARRAY",
	}

	var resp statementResponse
	if err := c.do(ctx, http.MethodPost, statementsPath, body, &resp); err != nil {
		return nil, err
	}

	out := &warehouse.StatementResponse{StatementID: resp.StatementID}
	if resp.Status != nil {
		out.State = warehouse.StatementState(resp.Status.State)
		out.Error = resp.Status.Error
	}
	if resp.Result != nil && out.State == warehouse.StateSucceeded {
		rows, err := c.collectChunks(ctx, resp.StatementID, resp.Result)
		if err != nil {
			return nil, err
		}
		out.Rows = rows
	}

	c.logger.Debug("Statement finished",
		zap.String("statement_id", out.StatementID),
		zap.String("warehouse_id", req.WarehouseID),
		zap.String("state", string(out.State)),
		zap.Int("rows", len(out.Rows)),
	)
	return out, nil
}

// collectChunks appends every remaining chunk of an inline result to the first one.
func (c *Client) collectChunks(ctx context.Context, statementID string, first *resultChunk) ([][]*string, error) {
	rows := first.DataArray
	next := first.NextChunkIndex
	for next != nil {
		var chunk resultChunk
		path := fmt.Sprintf("%s/%s/result/chunks/%d", statementsPath, url.PathEscape(statementID), *next)
		if err := c.do(ctx, http.MethodGet, path, nil, &chunk); err != nil {
			return nil, fmt.Errorf("failed to fetch result chunk %d: %w", *next, err)
		}
		if chunk.NextChunkIndex != nil && *chunk.NextChunkIndex <= *next {
			return nil, fmt.Errorf("result chunk %d points back to chunk %d", *next, *chunk.NextChunkIndex)
		}

		c.logger.Debug("Fetched result chunk",
			zap.String("statement_id", statementID),
			zap.Int("chunk_index", *next),
			zap.Int("rows", len(chunk.DataArray)),
		)
		rows = append(rows, chunk.DataArray...)
		next = chunk.NextChunkIndex
	}
	return rows, nil
}

type scimUser struct {
	ID          string `json:"id"`
	UserName    string `json:"userName"`
	DisplayName string `json:"displayName"`
	Active      *bool  `json:"active"`
	Emails      []struct {
		Display string `json:"display"`
		Primary bool   `json:"primary"`
		Type    string `json:"type"`
		Value   string `json:"value"`
	} `json:"emails"`
	Name *struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var u scimUser
	if err := c.do(ctx, http.MethodGet, currentUserPath, nil, &u); err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          u.ID,
		UserName:    u.UserName,
		DisplayName: u.DisplayName,
		Active:      u.Active,
	}
	for _, e := range u.Emails {
		user.Emails = append(user.Emails, models.ComplexValue{
			Display: e.Display,
			Primary: e.Primary,
			Type:    e.Type,
			Value:   e.Value,
		})
	}
	if u.Name != nil {
		user.Name = &models.Name{GivenName: u.Name.GivenName, FamilyName: u.Name.FamilyName}
	}
	return user, nil
}

// Close is a no-op: the client holds no connections of its own.
func (c *Client) Close() error {
	return nil
}

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	StatusCode int
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("databricks API error %d %s: %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("databricks API error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func formatWait(d time.Duration) string {
	if d < minWait {
		d = minWait
	}
	if d > maxWait {
		d = maxWait
	}
	return fmt.Sprintf("%ds", int(d.Seconds()))
}
