package domain

import (
	"context"
	"errors"
)

// ErrColumnNotFound marks a lookup that failed because the board does not
// have the reservation column configured. Callers treat it as "no match"
// rather than a fatal error, so a misconfigured board degrades to
// create-only syncing instead of failing every record.
var ErrColumnNotFound = errors.New("board: lookup column not found")

// BoardClient is the work-management board the sync writes to.
type BoardClient interface {
	// LookupItem finds an item whose columnID column equals value.
	// Returns "" with a nil error when no item matches. A missing lookup
	// column is reported as an error wrapping ErrColumnNotFound.
	LookupItem(ctx context.Context, boardID, columnID, value string) (string, error)
	CreateItem(ctx context.Context, boardID, groupID, name string, cols ColumnValues) (string, error)
	UpdateItem(ctx context.Context, itemID, boardID string, cols ColumnValues) (string, error)
}

// SourceClient fetches booking pages from the rental API.
type SourceClient interface {
	FetchBookings(ctx context.Context, limit, skip int) ([]Booking, error)
}

// Cache is a best-effort key/value store used to short-circuit repeated
// reservation lookups. Failures must never become sync failures.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
