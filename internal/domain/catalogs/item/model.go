// Package item provides the Item catalog.
// Items are the parts an integrator stocks, purchases, and kits into jobs:
// speakers, controllers, cable, mounts, and so on.
package item

import (
	"context"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// Default thresholds for items created implicitly during receiving.
const (
	DefaultMinStock types.Quantity = 5
	DefaultMaxStock types.Quantity = 100
)

// Item represents a stocked part identified by its part number.
type Item struct {
	entity.Catalog

	// PartNumber is the unique manufacturer part number
	PartNumber string `db:"part_number" json:"partNumber"`

	// Description is a detailed description
	Description *string `db:"description" json:"description,omitempty"`

	// Category groups items for filtering (e.g. "Electronics", "Cables")
	Category *string `db:"category" json:"category,omitempty"`

	// Manufacturer is the brand name
	Manufacturer *string `db:"manufacturer" json:"manufacturer,omitempty"`

	// VendorID is reference to the preferred vendor
	VendorID *id.ID `db:"vendor_id" json:"vendorId,omitempty"`

	// Cost is the purchase price per unit
	Cost types.Money `db:"cost" json:"cost"`

	// Price is the selling price per unit
	Price types.Money `db:"price" json:"price"`

	// MinStock is the low-stock threshold
	MinStock types.Quantity `db:"min_stock" json:"minStock"`

	// MaxStock is the overstock threshold; 0 means unbounded
	MaxStock types.Quantity `db:"max_stock" json:"maxStock"`

	// Tags are free-form labels used in search
	Tags []string `db:"tags" json:"tags,omitempty"`
}

// NewItem creates a new Item with required fields.
func NewItem(partNumber, name string) *Item {
	return &Item{
		Catalog:    entity.NewCatalog("", name),
		PartNumber: partNumber,
		Cost:       types.Zero(),
		Price:      types.Zero(),
		MinStock:   DefaultMinStock,
		MaxStock:   DefaultMaxStock,
	}
}

// NewAutoCreated creates an Item with default thresholds for a part number
// seen for the first time during receiving.
func NewAutoCreated(partNumber string) *Item {
	return NewItem(partNumber, partNumber)
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	// Base catalog validation
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.PartNumber == "" {
		return apperror.NewValidation("part number is required").
			WithDetail("field", "partNumber")
	}

	if i.MinStock < 0 {
		return apperror.NewValidation("minStock cannot be negative").
			WithDetail("field", "minStock")
	}

	if i.MaxStock < 0 {
		return apperror.NewValidation("maxStock cannot be negative").
			WithDetail("field", "maxStock")
	}

	// maxStock == 0 means "no upper bound"; otherwise it must not be
	// below minStock or the status bands would overlap.
	if i.MaxStock > 0 && i.MaxStock < i.MinStock {
		return apperror.NewValidation("maxStock must be 0 or greater than or equal to minStock").
			WithDetail("field", "maxStock")
	}

	if i.Cost.IsNegative() {
		return apperror.NewValidation("cost cannot be negative").
			WithDetail("field", "cost")
	}

	if i.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	return nil
}

// Margin returns price minus cost per unit.
func (i *Item) Margin() types.Money {
	return i.Price.Sub(i.Cost)
}

// IsBounded returns true if the item has an overstock threshold.
func (i *Item) IsBounded() bool {
	return i.MaxStock > 0
}
