package purchase_order

import (
	"context"
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain"
)

// Repository defines operations for purchase order documents.
type Repository interface {
	// CRUD operations
	Create(ctx context.Context, doc *PurchaseOrder) error
	GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)
	Update(ctx context.Context, doc *PurchaseOrder) error
	Delete(ctx context.Context, docID id.ID) error

	// Line operations
	GetLines(ctx context.Context, docID id.ID) ([]Line, error)
	SaveLines(ctx context.Context, docID id.ID, lines []Line) error

	// List operations
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error)

	// Locking
	GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error)
}

// ListFilter for filtering purchase orders.
type ListFilter struct {
	domain.ListFilter

	// Document-specific filters
	VendorID *id.ID
	Status   *Status
	// OpenOnly excludes received and cancelled orders
	OpenOnly bool
	DateFrom *time.Time
	DateTo   *time.Time
}
