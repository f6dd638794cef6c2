// Package invoice provides the billing side of the back office. Invoices
// are born from quote snapshots sent by the job allocator and never feed
// back into stock state.
package invoice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// Status is the invoice lifecycle state.
type Status string

const (
	StatusDraft   Status = "draft"
	StatusSent    Status = "sent"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func isValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// DefaultPaymentTerm is applied when an invoice is sent without an
// explicit due date.
const DefaultPaymentTerm = 30 * 24 * time.Hour

// Invoice represents a bill issued to a customer.
type Invoice struct {
	entity.Document

	// CustomerName as captured from the source quote
	CustomerName string `db:"customer_name" json:"customerName"`

	// JobNumber references the job the invoice was billed from
	JobNumber string `db:"job_number" json:"jobNumber,omitempty"`

	// SourceQuoteID references the quote that produced this invoice
	SourceQuoteID *id.ID `db:"source_quote_id" json:"sourceQuoteId,omitempty"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// DueDate is set when the invoice is sent
	DueDate *time.Time `db:"due_date" json:"dueDate,omitempty"`

	// PaidAt is set when payment is recorded
	PaidAt *time.Time `db:"paid_at" json:"paidAt,omitempty"`

	// TotalAmount is derived: sum of quantity * unitPrice over lines
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: billed lines
	Lines []Line `db:"-" json:"lines"`
}

// Line represents one billed position.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	PartNumber string `db:"part_number" json:"partNumber"`
	Name       string `db:"name" json:"name"`

	Quantity  types.Quantity `db:"quantity" json:"quantity"`
	UnitPrice types.Money    `db:"unit_price" json:"unitPrice"`
}

// Amount returns quantity * unitPrice for the line.
func (l Line) Amount() types.Money {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewInvoice creates a new draft invoice.
func NewInvoice(customerName string) *Invoice {
	return &Invoice{
		Document:     entity.NewDocument(),
		CustomerName: customerName,
		Status:       StatusDraft,
		TotalAmount:  types.Zero(),
		Lines:        make([]Line, 0),
	}
}

// AddLine appends a line and recalculates the total.
func (inv *Invoice) AddLine(partNumber, name string, qty types.Quantity, unitPrice types.Money) *Line {
	line := Line{
		LineID:     id.New(),
		LineNo:     len(inv.Lines) + 1,
		PartNumber: partNumber,
		Name:       name,
		Quantity:   qty,
		UnitPrice:  unitPrice,
	}
	inv.Lines = append(inv.Lines, line)
	inv.recalculateTotals()
	return &inv.Lines[len(inv.Lines)-1]
}

func (inv *Invoice) recalculateTotals() {
	total := types.Zero()
	for _, line := range inv.Lines {
		total = total.Add(line.Amount())
	}
	inv.TotalAmount = total
}

// IsSettled reports whether the invoice needs no further action.
func (inv *Invoice) IsSettled() bool {
	return inv.Status == StatusPaid
}

// IsOverdue reports whether an unpaid invoice has passed its due date.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	if inv.Status != StatusSent && inv.Status != StatusOverdue {
		return false
	}
	return inv.DueDate != nil && now.After(*inv.DueDate)
}

// Validate implements entity.Validatable.
func (inv *Invoice) Validate(ctx context.Context) error {
	if err := inv.Document.Validate(ctx); err != nil {
		return err
	}

	if inv.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if !isValidStatus(inv.Status) {
		return apperror.NewValidation("invalid invoice status").
			WithDetail("field", "status").
			WithDetail("value", string(inv.Status))
	}

	for i, line := range inv.Lines {
		if line.PartNumber == "" && line.Name == "" {
			return apperror.NewValidation("line needs a part number or a name").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("billed quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
