// Package customer provides the Customer catalog.
// Customers own the kitted jobs and receive the invoices.
package customer

import (
	"context"

	"integratorpro/internal/core/entity"
)

// Customer represents a client the integrator does work for.
type Customer struct {
	entity.Catalog
	entity.ContactAware

	// ContactPerson is the primary contact name
	ContactPerson *string `db:"contact_person" json:"contactPerson,omitempty"`

	// Notes is a free-form note
	Notes *string `db:"notes" json:"notes,omitempty"`
}

// NewCustomer creates a new Customer with required fields.
func NewCustomer(code, name string) *Customer {
	return &Customer{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	// Base catalog validation
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	return c.ValidateContact(ctx)
}
