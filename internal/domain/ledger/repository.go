package ledger

import (
	"context"
	"time"

	"integratorpro/internal/core/entity"
)

// Repository defines persistence operations for the stock ledger.
type Repository interface {
	// Record operations

	// GetRecord returns the stock record for a part number.
	// A part with no movements yet yields a zero-quantity record, not an error.
	GetRecord(ctx context.Context, partNumber string) (StockRecord, error)

	// GetRecordForUpdate returns the record with a row lock. Must be called
	// within a transaction; concurrent operations on the same part number
	// serialize on this lock.
	GetRecordForUpdate(ctx context.Context, partNumber string) (StockRecord, error)

	// SaveRecord upserts the record.
	SaveRecord(ctx context.Context, rec StockRecord) error

	// ListStock returns records joined with item thresholds.
	ListStock(ctx context.Context, filter StockFilter) ([]StockInfo, error)

	// GetStock returns a single record joined with item thresholds.
	GetStock(ctx context.Context, partNumber string) (StockInfo, error)

	// Movement operations

	// CreateMovements appends register entries (movements are immutable).
	CreateMovements(ctx context.Context, movements []entity.StockMovement) error

	// GetMovementHistory returns movement history for a part number.
	GetMovementHistory(ctx context.Context, partNumber string, filter MovementFilter) ([]entity.StockMovement, error)
}

// StockFilter narrows stock listings.
type StockFilter struct {
	PartNumbers []string
	ExcludeZero bool
	Limit       int
	Offset      int
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	Kind     *entity.MovementKind
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
	Offset   int
}
