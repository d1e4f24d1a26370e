package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrQueryFailed matches every error returned by TweetStore.
var ErrQueryFailed = errors.New("query failed")

// Reason says why a query failed. Callers answering HTTP requests collapse
// all of them into one message; the reason is for logs and metrics.
type Reason string

const (
	ReasonConnection Reason = "connection"
	ReasonAuth       Reason = "auth"
	ReasonQuery      Reason = "query"
	ReasonTimeout    Reason = "timeout"
	ReasonCanceled   Reason = "canceled"
	ReasonUnknown    Reason = "unknown"
)

type QueryError struct {
	Op     string
	Reason Reason
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: query failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQueryFailed }

func newQueryError(op string, err error) *QueryError {
	return &QueryError{Op: op, Reason: classify(err), Err: err}
}

// classify maps a driver error onto a Reason. A server error is checked
// before a connect error because failed authentication arrives as a
// PgError wrapped in a ConnectError.
func classify(err error) Reason {
	var (
		pgErr   *pgconn.PgError
		connErr *pgconn.ConnectError
		netErr  net.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &pgErr):
		// SQLSTATE class 28 covers authentication failures
		if strings.HasPrefix(pgErr.Code, "28") {
			return ReasonAuth
		}
		return ReasonQuery
	case errors.As(err, &connErr), errors.As(err, &netErr):
		return ReasonConnection
	default:
		return ReasonUnknown
	}
}
