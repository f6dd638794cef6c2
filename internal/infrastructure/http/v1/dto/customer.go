package dto

import (
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zipCode"`
	Notes         *string           `json:"notes"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	cu := customer.NewCustomer(r.Code, r.Name)
	cu.ContactPerson = r.ContactPerson
	cu.Email = r.Email
	cu.Phone = r.Phone
	cu.Address = r.Address
	cu.City = r.City
	cu.State = r.State
	cu.ZipCode = r.ZipCode
	cu.Notes = r.Notes
	cu.Attributes = r.Attributes
	return cu
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson,omitempty"`
	Email         string            `json:"email"`
	Phone         string            `json:"phone"`
	Address       string            `json:"address"`
	City          string            `json:"city"`
	State         string            `json:"state"`
	ZipCode       string            `json:"zipCode"`
	Notes         *string           `json:"notes,omitempty"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCustomerRequest) ApplyTo(cu *customer.Customer) {
	cu.Code = r.Code
	cu.Name = r.Name
	cu.ContactPerson = r.ContactPerson
	cu.Email = r.Email
	cu.Phone = r.Phone
	cu.Address = r.Address
	cu.City = r.City
	cu.State = r.State
	cu.ZipCode = r.ZipCode
	cu.Notes = r.Notes
	cu.Attributes = r.Attributes
	cu.Version = r.Version
}

// --- Response DTOs ---

// CustomerResponse is the response body for a customer.
type CustomerResponse struct {
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
	Notes         *string           `json:"notes,omitempty"`
	DeletionMark  bool              `json:"deletionMark"`
	Version       int               `json:"version"`
	Attributes    entity.Attributes `json:"attributes,omitempty"`
}

// FromCustomer creates response DTO from domain entity.
func FromCustomer(cu *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:            cu.ID.String(),
		Code:          cu.Code,
		Name:          cu.Name,
		ContactPerson: cu.ContactPerson,
		Email:         cu.Email,
		Phone:         cu.Phone,
		Address:       cu.Address,
		City:          cu.City,
		State:         cu.State,
		ZipCode:       cu.ZipCode,
		Notes:         cu.Notes,
		DeletionMark:  cu.DeletionMark,
		Version:       cu.Version,
		Attributes:    cu.Attributes,
	}
}
