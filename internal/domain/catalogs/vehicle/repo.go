package vehicle

import (
	"context"

	"integratorpro/internal/domain"
)

// Repository defines the interface for Vehicle persistence.
type Repository interface {
	domain.CatalogRepository[*Vehicle]

	// FindByLicensePlate retrieves a vehicle by its plate.
	FindByLicensePlate(ctx context.Context, plate string) (*Vehicle, error)
}
