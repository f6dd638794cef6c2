package handlers

import (
	"integratorpro/internal/domain/catalogs/vehicle"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// VehicleHTTPHandler handles vehicle catalog endpoints.
type VehicleHTTPHandler = CatalogHandler[
	*vehicle.Vehicle,
	dto.CreateVehicleRequest,
	dto.UpdateVehicleRequest,
]

// NewVehicleHandler creates a configured vehicle handler.
func NewVehicleHandler(
	base *BaseHandler,
	service *vehicle.Service,
) *VehicleHTTPHandler {

	config := CatalogHandlerConfig[
		*vehicle.Vehicle,
		dto.CreateVehicleRequest,
		dto.UpdateVehicleRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vehicle",

		MapCreateDTO: func(req dto.CreateVehicleRequest) *vehicle.Vehicle {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVehicleRequest, existing *vehicle.Vehicle) *vehicle.Vehicle {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *vehicle.Vehicle) any {
			return dto.FromVehicle(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
