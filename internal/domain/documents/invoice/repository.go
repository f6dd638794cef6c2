package invoice

import (
	"context"
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain"
)

// Repository defines operations for invoice documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *Invoice) error
	GetByID(ctx context.Context, docID id.ID) (*Invoice, error)
	GetByNumber(ctx context.Context, number string) (*Invoice, error)
	Update(ctx context.Context, doc *Invoice) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*Invoice, error)
}

// ListFilter for filtering invoices.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	Status *Status
	// UnpaidOnly keeps sent and overdue invoices
	UnpaidOnly bool
	// DueBefore keeps invoices whose due date has passed the given moment
	DueBefore *time.Time
	DateFrom  *time.Time
	DateTo    *time.Time
}
