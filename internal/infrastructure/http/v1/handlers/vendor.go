package handlers

import (
	"integratorpro/internal/domain/catalogs/vendor"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// VendorHTTPHandler handles vendor catalog endpoints.
type VendorHTTPHandler = CatalogHandler[
	*vendor.Vendor,
	dto.CreateVendorRequest,
	dto.UpdateVendorRequest,
]

// NewVendorHandler creates a configured vendor handler.
func NewVendorHandler(
	base *BaseHandler,
	service *vendor.Service,
) *VendorHTTPHandler {

	config := CatalogHandlerConfig[
		*vendor.Vendor,
		dto.CreateVendorRequest,
		dto.UpdateVendorRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "vendor",

		MapCreateDTO: func(req dto.CreateVendorRequest) *vendor.Vendor {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateVendorRequest, existing *vendor.Vendor) *vendor.Vendor {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *vendor.Vendor) any {
			return dto.FromVendor(entity)
		},
	}

	return NewCatalogHandler(base, config)
}
