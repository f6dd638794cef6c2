package dto

import (
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an item.
type CreateItemRequest struct {
	Code         string            `json:"code"`
	PartNumber   string            `json:"partNumber" binding:"required"`
	Name         string            `json:"name" binding:"required"`
	Description  *string           `json:"description"`
	Category     *string           `json:"category"`
	Manufacturer *string           `json:"manufacturer"`
	VendorID     *string           `json:"vendorId"`
	Cost         types.Money       `json:"cost"`
	Price        types.Money       `json:"price"`
	MinStock     *types.Quantity   `json:"minStock"`
	MaxStock     *types.Quantity   `json:"maxStock"`
	Tags         []string          `json:"tags"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() *item.Item {
	it := item.NewItem(r.PartNumber, r.Name)
	it.Code = r.Code
	it.Description = r.Description
	it.Category = r.Category
	it.Manufacturer = r.Manufacturer
	it.Cost = r.Cost
	it.Price = r.Price
	if r.MinStock != nil {
		it.MinStock = *r.MinStock
	}
	if r.MaxStock != nil {
		it.MaxStock = *r.MaxStock
	}
	it.Tags = r.Tags
	it.Attributes = r.Attributes
	if r.VendorID != nil {
		if parsed, err := id.Parse(*r.VendorID); err == nil {
			it.VendorID = &parsed
		}
	}
	return it
}

// UpdateItemRequest is the request body for updating an item.
type UpdateItemRequest struct {
	Code         string            `json:"code"`
	PartNumber   string            `json:"partNumber" binding:"required"`
	Name         string            `json:"name" binding:"required"`
	Description  *string           `json:"description,omitempty"`
	Category     *string           `json:"category,omitempty"`
	Manufacturer *string           `json:"manufacturer,omitempty"`
	VendorID     *string           `json:"vendorId,omitempty"`
	Cost         types.Money       `json:"cost"`
	Price        types.Money       `json:"price"`
	MinStock     types.Quantity    `json:"minStock"`
	MaxStock     types.Quantity    `json:"maxStock"`
	Tags         []string          `json:"tags"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) {
	it.Code = r.Code
	it.PartNumber = r.PartNumber
	it.Name = r.Name
	it.Description = r.Description
	it.Category = r.Category
	it.Manufacturer = r.Manufacturer
	it.Cost = r.Cost
	it.Price = r.Price
	it.MinStock = r.MinStock
	it.MaxStock = r.MaxStock
	it.Tags = r.Tags
	it.Attributes = r.Attributes
	it.Version = r.Version
	it.VendorID = nil
	if r.VendorID != nil {
		if parsed, err := id.Parse(*r.VendorID); err == nil {
			it.VendorID = &parsed
		}
	}
}

// --- Response DTOs ---

// ItemResponse is the response body for an item.
type ItemResponse struct {
	ID           string            `json:"id"`
	Code         string            `json:"code"`
	PartNumber   string            `json:"partNumber"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	Category     *string           `json:"category,omitempty"`
	Manufacturer *string           `json:"manufacturer,omitempty"`
	VendorID     *string           `json:"vendorId,omitempty"`
	Cost         types.Money       `json:"cost"`
	Price        types.Money       `json:"price"`
	MinStock     types.Quantity    `json:"minStock"`
	MaxStock     types.Quantity    `json:"maxStock"`
	Tags         []string          `json:"tags,omitempty"`
	DeletionMark bool              `json:"deletionMark"`
	Version      int               `json:"version"`
	Attributes   entity.Attributes `json:"attributes,omitempty"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) *ItemResponse {
	resp := &ItemResponse{
		ID:           it.ID.String(),
		Code:         it.Code,
		PartNumber:   it.PartNumber,
		Name:         it.Name,
		Description:  it.Description,
		Category:     it.Category,
		Manufacturer: it.Manufacturer,
		Cost:         it.Cost,
		Price:        it.Price,
		MinStock:     it.MinStock,
		MaxStock:     it.MaxStock,
		Tags:         it.Tags,
		DeletionMark: it.DeletionMark,
		Version:      it.Version,
		Attributes:   it.Attributes,
	}
	if it.VendorID != nil {
		s := it.VendorID.String()
		resp.VendorID = &s
	}
	return resp
}
