package dto

import (
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/catalogs/warehouse"
)

// --- Request DTOs ---

// CreateWarehouseRequest is the request body for creating a warehouse.
type CreateWarehouseRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	ZipCode     string            `json:"zipCode"`
	Phone       string            `json:"phone"`
	IsActive    *bool             `json:"isActive"`
	IsDefault   bool              `json:"isDefault"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateWarehouseRequest) ToEntity() *warehouse.Warehouse {
	wh := warehouse.NewWarehouse(r.Code, r.Name)
	wh.Address = r.Address
	wh.City = r.City
	wh.State = r.State
	wh.ZipCode = r.ZipCode
	wh.Phone = r.Phone
	if r.IsActive != nil {
		wh.IsActive = *r.IsActive
	}
	wh.IsDefault = r.IsDefault
	wh.Description = r.Description
	wh.Attributes = r.Attributes
	return wh
}

// UpdateWarehouseRequest is the request body for updating a warehouse.
type UpdateWarehouseRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	State       string            `json:"state"`
	ZipCode     string            `json:"zipCode"`
	Phone       string            `json:"phone"`
	IsActive    bool              `json:"isActive"`
	IsDefault   bool              `json:"isDefault"`
	Description *string           `json:"description,omitempty"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateWarehouseRequest) ApplyTo(wh *warehouse.Warehouse) {
	wh.Code = r.Code
	wh.Name = r.Name
	wh.Address = r.Address
	wh.City = r.City
	wh.State = r.State
	wh.ZipCode = r.ZipCode
	wh.Phone = r.Phone
	wh.IsActive = r.IsActive
	wh.IsDefault = r.IsDefault
	wh.Description = r.Description
	wh.Attributes = r.Attributes
	wh.Version = r.Version
}

// --- Response DTOs ---

// WarehouseResponse is the response body for a warehouse.
type WarehouseResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	Address      string            `json:"address,omitempty"`
	City         string            `json:"city,omitempty"`
	State        string            `json:"state,omitempty"`
	ZipCode      string            `json:"zipCode,omitempty"`
	Phone        string            `json:"phone,omitempty"`
	IsActive     bool              `json:"isActive"`
	IsDefault    bool              `json:"isDefault"`
	Description  *string           `json:"description,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromWarehouse creates response DTO from domain entity.
func FromWarehouse(wh *warehouse.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:           wh.ID.String(),
		Code:         wh.Code,
		Name:         wh.Name,
		Address:      wh.Address,
		City:         wh.City,
		State:        wh.State,
		ZipCode:      wh.ZipCode,
		Phone:        wh.Phone,
		IsActive:     wh.IsActive,
		IsDefault:    wh.IsDefault,
		Description:  wh.Description,
		DeletionMark: wh.DeletionMark,
		Version:      wh.Version,
		Attributes:   wh.Attributes,
	}
}
