package dto

import (
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/catalogs/vendor"
)

// --- Request DTOs ---

// CreateVendorRequest is the request body for creating a vendor.
type CreateVendorRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zipCode"`
	AccountNumber *string           `json:"accountNumber"`
	Website       *string           `json:"website"`
	Notes         *string           `json:"notes"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateVendorRequest) ToEntity() *vendor.Vendor {
	v := vendor.NewVendor(r.Code, r.Name)
	v.ContactPerson = r.ContactPerson
	v.Email = r.Email
	v.Phone = r.Phone
	v.Address = r.Address
	v.City = r.City
	v.State = r.State
	v.ZipCode = r.ZipCode
	v.AccountNumber = r.AccountNumber
	v.Website = r.Website
	v.Notes = r.Notes
	v.Attributes = r.Attributes
	return v
}

// UpdateVendorRequest is the request body for updating a vendor.
type UpdateVendorRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zipCode"`
	AccountNumber *string           `json:"accountNumber,omitempty"`
	Website       *string           `json:"website,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateVendorRequest) ApplyTo(v *vendor.Vendor) {
	v.Code = r.Code
	v.Name = r.Name
	v.ContactPerson = r.ContactPerson
	v.Email = r.Email
	v.Phone = r.Phone
	v.Address = r.Address
	v.City = r.City
	v.State = r.State
	v.ZipCode = r.ZipCode
	v.AccountNumber = r.AccountNumber
	v.Website = r.Website
	v.Notes = r.Notes
	v.Attributes = r.Attributes
	v.Version = r.Version
}

// --- Response DTOs ---

// VendorResponse is the response body for a vendor.
type VendorResponse struct {
	ID            string            `json:"id"`
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	Email         string            `json:"email,omitempty"`
	Phone         string            `json:"phone,omitempty"`
	Address       string            `json:"address,omitempty"`
	City          string            `json:"city,omitempty"`
	State         string            `json:"state,omitempty"`
	ZipCode       string            `json:"zipCode,omitempty"`
	AccountNumber *string           `json:"accountNumber,omitempty"`
	Website       *string           `json:"website,omitempty"`
	Notes         *string           `json:"notes,omitempty"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromVendor creates response DTO from domain entity.
func FromVendor(v *vendor.Vendor) *VendorResponse {
	return &VendorResponse{
		ID:            v.ID.String(),
		Code:          v.Code,
		Name:          v.Name,
		ContactPerson: v.ContactPerson,
		Email:         v.Email,
		Phone:         v.Phone,
		Address:       v.Address,
		City:          v.City,
		State:         v.State,
		ZipCode:       v.ZipCode,
		AccountNumber: v.AccountNumber,
		Website:       v.Website,
		Notes:         v.Notes,
		DeletionMark:  v.DeletionMark,
		Version:       v.Version,
		Attributes:    v.Attributes,
	}
}
