// Package purchase_order provides the PurchaseOrder document and its
// lifecycle: draft, sent, received, cancelled. Receiving against a PO is
// the only path that transitions it to received.
package purchase_order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// Status is the purchase order lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSent      Status = "sent"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

func isValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusReceived, StatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder represents an order placed with a vendor.
type PurchaseOrder struct {
	entity.Document

	// VendorID references the supplier
	VendorID id.ID `db:"vendor_id" json:"vendorId"`

	// ExpectedDelivery is when the vendor promised the goods
	ExpectedDelivery *time.Time `db:"expected_delivery" json:"expectedDelivery,omitempty"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// TotalAmount is derived: sum of quantityOrdered * unitCost over lines
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: ordered lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one ordered part on a purchase order.
type Line struct {
	// Line identification
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// PartNumber identifies the ordered item
	PartNumber string `db:"part_number" json:"partNumber"`

	// Description as it appears on the order
	Description string `db:"description" json:"description,omitempty"`

	// QuantityOrdered is how many units were ordered
	QuantityOrdered types.Quantity `db:"quantity_ordered" json:"quantityOrdered"`

	// QuantityReceived accumulates across receiving sessions
	QuantityReceived types.Quantity `db:"quantity_received" json:"quantityReceived"`

	// UnitCost is the agreed purchase price per unit
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`
}

// Amount returns quantityOrdered * unitCost for the line.
func (l Line) Amount() types.Money {
	return l.UnitCost.Mul(decimal.NewFromInt(int64(l.QuantityOrdered)))
}

// IsFulfilled reports whether the cumulative received quantity covers the
// ordered quantity.
func (l Line) IsFulfilled() bool {
	return l.QuantityReceived >= l.QuantityOrdered
}

// NewPurchaseOrder creates a new purchase order in draft.
func NewPurchaseOrder(vendorID id.ID) *PurchaseOrder {
	return &PurchaseOrder{
		Document:    entity.NewDocument(),
		VendorID:    vendorID,
		Status:      StatusDraft,
		TotalAmount: types.Zero(),
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates the total.
func (p *PurchaseOrder) AddLine(partNumber, description string, qty types.Quantity, unitCost types.Money) *Line {
	line := Line{
		LineID:          id.New(),
		LineNo:          len(p.Lines) + 1,
		PartNumber:      partNumber,
		Description:     description,
		QuantityOrdered: qty,
		UnitCost:        unitCost,
	}
	p.Lines = append(p.Lines, line)
	p.recalculateTotals()
	return &p.Lines[len(p.Lines)-1]
}

// UpdateLine changes the ordered quantity and unit cost of a line.
func (p *PurchaseOrder) UpdateLine(lineID id.ID, qty types.Quantity, unitCost types.Money) error {
	for i := range p.Lines {
		if p.Lines[i].LineID == lineID {
			p.Lines[i].QuantityOrdered = qty
			p.Lines[i].UnitCost = unitCost
			p.recalculateTotals()
			return nil
		}
	}
	return apperror.NewNotFound("purchase order line", lineID.String())
}

// RemoveLine removes a line and renumbers the rest.
func (p *PurchaseOrder) RemoveLine(lineID id.ID) error {
	for i := range p.Lines {
		if p.Lines[i].LineID == lineID {
			p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
			for j := range p.Lines {
				p.Lines[j].LineNo = j + 1
			}
			p.recalculateTotals()
			return nil
		}
	}
	return apperror.NewNotFound("purchase order line", lineID.String())
}

// FindLine returns the line with the given ID.
func (p *PurchaseOrder) FindLine(lineID id.ID) (*Line, error) {
	for i := range p.Lines {
		if p.Lines[i].LineID == lineID {
			return &p.Lines[i], nil
		}
	}
	return nil, apperror.NewNotFound("purchase order line", lineID.String())
}

func (p *PurchaseOrder) recalculateTotals() {
	total := types.Zero()
	for _, line := range p.Lines {
		total = total.Add(line.Amount())
	}
	p.TotalAmount = total
}

// IsOpen reports whether the order still accepts receiving.
func (p *PurchaseOrder) IsOpen() bool {
	return p.Status == StatusDraft || p.Status == StatusSent
}

// CanModify returns an error when the order's lines are frozen.
// Lines are editable only in draft and sent.
func (p *PurchaseOrder) CanModify() error {
	if p.IsOpen() {
		return nil
	}
	return apperror.NewInvalidState("purchase order in status '" + string(p.Status) + "' cannot be modified").
		WithDetail("status", string(p.Status))
}

// AllLinesFulfilled reports whether every line is fully received.
func (p *PurchaseOrder) AllLinesFulfilled() bool {
	if len(p.Lines) == 0 {
		return false
	}
	for _, line := range p.Lines {
		if !line.IsFulfilled() {
			return false
		}
	}
	return true
}

// Validate implements entity.Validatable.
func (p *PurchaseOrder) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.VendorID) {
		return apperror.NewValidation("vendor is required").
			WithDetail("field", "vendorId")
	}

	if !isValidStatus(p.Status) {
		return apperror.NewValidation("invalid purchase order status").
			WithDetail("field", "status").
			WithDetail("value", string(p.Status))
	}

	for i, line := range p.Lines {
		if line.PartNumber == "" {
			return apperror.NewValidation("part number is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.QuantityOrdered <= 0 {
			return apperror.NewValidation("ordered quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.QuantityReceived < 0 {
			return apperror.NewValidation("received quantity cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitCost.IsNegative() {
			return apperror.NewValidation("unit cost cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
