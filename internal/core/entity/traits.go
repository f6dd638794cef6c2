package entity

import (
	"context"
	"strings"

	"integratorpro/internal/core/apperror"
)

// ContactAware is a trait for catalog entries that carry contact details.
// Used for composition in models like Vendor, Customer, Warehouse.
type ContactAware struct {
	Email   string `db:"email" json:"email,omitempty"`
	Phone   string `db:"phone" json:"phone,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
	City    string `db:"city" json:"city,omitempty"`
	State   string `db:"state" json:"state,omitempty"`
	ZipCode string `db:"zip_code" json:"zipCode,omitempty"`
}

// ValidateContact checks the optional contact fields that have format
// constraints.
func (c *ContactAware) ValidateContact(ctx context.Context) error {
	if c.Email != "" && !strings.ContainsRune(c.Email, '@') {
		return apperror.NewValidation("email is invalid").
			WithDetail("field", "email")
	}
	return nil
}
