// Package vehicle provides the Vehicle catalog.
// Vehicles are the service trucks that carry truck stock.
package vehicle

import (
	"context"
	"time"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
)

// Vehicle represents a service truck or van.
type Vehicle struct {
	entity.Catalog

	// LicensePlate is the registration plate (unique)
	LicensePlate *string `db:"license_plate" json:"licensePlate,omitempty"`

	// Make is the manufacturer (e.g. "Ford")
	Make *string `db:"make" json:"make,omitempty"`

	// Model (e.g. "Transit")
	Model *string `db:"model" json:"model,omitempty"`

	// Year of manufacture; 0 means unknown
	Year int `db:"year" json:"year,omitempty"`

	// AssignedTech is the technician the vehicle is assigned to
	AssignedTech *string `db:"assigned_tech" json:"assignedTech,omitempty"`

	// IsActive indicates if the vehicle is in service
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewVehicle creates a new Vehicle with required fields.
func NewVehicle(code, name string) *Vehicle {
	return &Vehicle{
		Catalog:  entity.NewCatalog(code, name),
		IsActive: true,
	}
}

// Validate implements entity.Validatable interface.
func (v *Vehicle) Validate(ctx context.Context) error {
	// Base catalog validation
	if err := v.Catalog.Validate(ctx); err != nil {
		return err
	}

	if v.Year != 0 {
		if v.Year < 1900 || v.Year > time.Now().Year()+1 {
			return apperror.NewValidation("year is out of range").
				WithDetail("field", "year")
		}
	}

	return nil
}
