package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/domain/catalogs/vehicle"
	"integratorpro/internal/infrastructure/storage/postgres"
)

const vehicleTable = "cat_vehicles"

// VehicleRepo implements vehicle.Repository.
type VehicleRepo struct {
	*BaseCatalogRepo[*vehicle.Vehicle]
}

// NewVehicleRepo creates a new vehicle repository.
func NewVehicleRepo(txManager *postgres.TxManager) *VehicleRepo {
	return &VehicleRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*vehicle.Vehicle](
			txManager,
			vehicleTable,
			postgres.ExtractDBColumns[vehicle.Vehicle](),
			func() *vehicle.Vehicle { return &vehicle.Vehicle{} },
		),
	}
}

// FindByLicensePlate retrieves a vehicle by its plate.
func (r *VehicleRepo) FindByLicensePlate(ctx context.Context, plate string) (*vehicle.Vehicle, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"license_plate": plate}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	v, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("vehicle", plate)
		}
		return nil, err
	}
	return v, nil
}
