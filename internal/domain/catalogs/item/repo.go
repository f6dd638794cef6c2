package item

import (
	"context"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain"
)

// SearchFilters narrows a catalog search. All fields are optional and
// combined with AND; the free-text query is matched separately.
type SearchFilters struct {
	Category     string
	Manufacturer string
	VendorID     *id.ID
	Tags         []string
}

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindByPartNumber retrieves an item by its exact part number.
	FindByPartNumber(ctx context.Context, partNumber string) (*Item, error)

	// Search performs a case-insensitive substring match over part number,
	// name, description, manufacturer, and tags, intersected with filters.
	Search(ctx context.Context, query string, filters SearchFilters, listFilter domain.ListFilter) (domain.ListResult[*Item], error)

	// GetForUpdate retrieves an item with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)
}
