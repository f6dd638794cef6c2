package dto

import (
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/catalogs/vehicle"
)

// --- Request DTOs ---

// CreateVehicleRequest is the request body for creating a vehicle.
type CreateVehicleRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	LicensePlate *string           `json:"licensePlate"`
	Make         *string           `json:"make"`
	Model        *string           `json:"model"`
	Year         int               `json:"year"`
	AssignedTech *string           `json:"assignedTech"`
	IsActive     *bool             `json:"isActive"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVehicleRequest) ToEntity() *vehicle.Vehicle {
	v := vehicle.NewVehicle(r.Code, r.Name)
	v.LicensePlate = r.LicensePlate
	v.Make = r.Make
	v.Model = r.Model
	v.Year = r.Year
	v.AssignedTech = r.AssignedTech
	if r.IsActive != nil {
		v.IsActive = *r.IsActive
	}
	v.Attributes = r.Attributes
	return v
}

// UpdateVehicleRequest is the request body for updating a vehicle.
type UpdateVehicleRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	LicensePlate *string           `json:"licensePlate,omitempty"`
	Make         *string           `json:"make,omitempty"`
	Model        *string           `json:"model,omitempty"`
	Year         int               `json:"year"`
	AssignedTech *string           `json:"assignedTech,omitempty"`
	IsActive     bool              `json:"isActive"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVehicleRequest) ApplyTo(v *vehicle.Vehicle) {
	v.Code = r.Code
	v.Name = r.Name
	v.LicensePlate = r.LicensePlate
	v.Make = r.Make
	v.Model = r.Model
	v.Year = r.Year
	v.AssignedTech = r.AssignedTech
	v.IsActive = r.IsActive
	v.Attributes = r.Attributes
	v.Version = r.Version
}

// --- Response DTOs ---

// VehicleResponse is the response body for a vehicle.
type VehicleResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	Name         string            `json:"name"`
	LicensePlate *string           `json:"licensePlate,omitempty"`
	Make         *string           `json:"make,omitempty"`
	Model        *string           `json:"model,omitempty"`
	Year         int               `json:"year,omitempty"`
	AssignedTech *string           `json:"assignedTech,omitempty"`
	IsActive     bool              `json:"isActive"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromVehicle creates response DTO from domain entity.
func FromVehicle(v *vehicle.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:           v.ID.String(),
		Code:         v.Code,
		Name:         v.Name,
		LicensePlate: v.LicensePlate,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		AssignedTech: v.AssignedTech,
		IsActive:     v.IsActive,
		DeletionMark: v.DeletionMark,
		Version:      v.Version,
		Attributes:   v.Attributes,
	}
}
