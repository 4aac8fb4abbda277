package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNoWarehouseAvailable = errors.New("no SQL warehouse available")
	ErrQueryExecutionFailed = errors.New("query execution failed")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
)

// UnknownErrorDetail is reported when a statement fails without upstream detail.
const UnknownErrorDetail = "Unknown error"

// QueryExecutionError reports a statement that reached a non-success terminal state.
type QueryExecutionError struct {
	State  string
	Detail string
}

func (e *QueryExecutionError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = UnknownErrorDetail
	}
	return fmt.Sprintf("Query failed: %s", detail)
}

func (e *QueryExecutionError) Is(target error) bool {
	return target == ErrQueryExecutionFailed
}

// WarehouseUnavailableError reports that no warehouse can run a statement.
// Reason is safe to show to API callers.
type WarehouseUnavailableError struct {
	Reason string
}

func (e *WarehouseUnavailableError) Error() string {
	return e.Reason
}

func (e *WarehouseUnavailableError) Is(target error) bool {
	return target == ErrNoWarehouseAvailable
}

// InvalidIdentifierError reports a catalog or schema name that cannot be placed in SQL.
// Fingerprint is the libinjection fingerprint when the value looks like an injection attempt.
type InvalidIdentifierError struct {
	Kind        string
	Value       string
	Fingerprint string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid %s name %q", e.Kind, e.Value)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}
