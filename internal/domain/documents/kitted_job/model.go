// Package kitted_job provides jobs whose quotes reserve warehouse stock.
// Setting a part quantity on a quote allocates the delta from the warehouse;
// lowering it or removing the part releases the allocation back.
package kitted_job

import (
	"context"

	"github.com/shopspring/decimal"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// Status is the kitted job lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func isValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// KittedJob represents a customer job with one or more quotes. Quote parts
// hold stock in the allocated pool for as long as they stay on the job.
type KittedJob struct {
	entity.Document

	// CustomerID references the customer catalog, when known
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// CustomerName as it appears on quotes and invoices
	CustomerName string `db:"customer_name" json:"customerName"`

	// Status is the lifecycle state
	Status Status `db:"status" json:"status"`

	// TotalValue is derived: sum over quotes of quantity * unitCost
	TotalValue types.Money `db:"total_value" json:"totalValue"`

	// Table part: quotes with their parts
	Quotes []Quote `db:"-" json:"quotes"`
}

// Quote is a named group of parts on a job.
type Quote struct {
	QuoteID id.ID  `db:"quote_id" json:"quoteId"`
	QuoteNo int    `db:"quote_no" json:"quoteNo"`
	Name    string `db:"name" json:"name"`

	// InvoiceID is set once the quote has been sent to billing
	InvoiceID *id.ID `db:"invoice_id" json:"invoiceId,omitempty"`

	Parts []JobPart `db:"-" json:"parts"`
}

// JobPart is one allocated part on a quote. Quantity mirrors the amount
// currently held in the allocated stock pool on this quote's behalf.
type JobPart struct {
	PartNumber string         `db:"part_number" json:"partNumber"`
	Name       string         `db:"name" json:"name"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	UnitCost   types.Money    `db:"unit_cost" json:"unitCost"`
}

// Amount returns quantity * unitCost for the part.
func (p JobPart) Amount() types.Money {
	return p.UnitCost.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// IsBilled reports whether the quote has been sent to billing.
func (q *Quote) IsBilled() bool {
	return q.InvoiceID != nil
}

// Total returns the quote's value.
func (q *Quote) Total() types.Money {
	total := types.Zero()
	for _, p := range q.Parts {
		total = total.Add(p.Amount())
	}
	return total
}

// FindPart returns the part with the given part number, or nil.
func (q *Quote) FindPart(partNumber string) *JobPart {
	for i := range q.Parts {
		if q.Parts[i].PartNumber == partNumber {
			return &q.Parts[i]
		}
	}
	return nil
}

// NewKittedJob creates a new active job for a customer.
func NewKittedJob(customerName string) *KittedJob {
	return &KittedJob{
		Document:     entity.NewDocument(),
		CustomerName: customerName,
		Status:       StatusActive,
		TotalValue:   types.Zero(),
		Quotes:       make([]Quote, 0),
	}
}

// AddQuote appends an empty quote to the job.
func (j *KittedJob) AddQuote(name string) *Quote {
	quote := Quote{
		QuoteID: id.New(),
		QuoteNo: len(j.Quotes) + 1,
		Name:    name,
		Parts:   make([]JobPart, 0),
	}
	j.Quotes = append(j.Quotes, quote)
	return &j.Quotes[len(j.Quotes)-1]
}

// FindQuote returns the quote with the given ID.
func (j *KittedJob) FindQuote(quoteID id.ID) (*Quote, error) {
	for i := range j.Quotes {
		if j.Quotes[i].QuoteID == quoteID {
			return &j.Quotes[i], nil
		}
	}
	return nil, apperror.NewNotFound("quote", quoteID.String())
}

// RemoveQuote removes a quote and renumbers the rest. Releasing the quote's
// allocations is the caller's responsibility.
func (j *KittedJob) RemoveQuote(quoteID id.ID) error {
	for i := range j.Quotes {
		if j.Quotes[i].QuoteID == quoteID {
			j.Quotes = append(j.Quotes[:i], j.Quotes[i+1:]...)
			for k := range j.Quotes {
				j.Quotes[k].QuoteNo = k + 1
			}
			j.RecalculateTotals()
			return nil
		}
	}
	return apperror.NewNotFound("quote", quoteID.String())
}

// RecalculateTotals refreshes the derived job total.
func (j *KittedJob) RecalculateTotals() {
	total := types.Zero()
	for i := range j.Quotes {
		total = total.Add(j.Quotes[i].Total())
	}
	j.TotalValue = total
}

// IsActive reports whether the job still accepts quote edits.
func (j *KittedJob) IsActive() bool {
	return j.Status == StatusActive
}

// CanModify returns an error when quotes are frozen. Completed and
// cancelled jobs keep their quote history read-only.
func (j *KittedJob) CanModify() error {
	if j.IsActive() {
		return nil
	}
	return apperror.NewInvalidState("job in status '" + string(j.Status) + "' cannot be modified").
		WithDetail("status", string(j.Status))
}

// Validate implements entity.Validatable.
func (j *KittedJob) Validate(ctx context.Context) error {
	if err := j.Document.Validate(ctx); err != nil {
		return err
	}

	if j.CustomerName == "" {
		return apperror.NewValidation("customer name is required").
			WithDetail("field", "customerName")
	}

	if !isValidStatus(j.Status) {
		return apperror.NewValidation("invalid job status").
			WithDetail("field", "status").
			WithDetail("value", string(j.Status))
	}

	for _, quote := range j.Quotes {
		if quote.Name == "" {
			return apperror.NewValidation("quote name is required").
				WithDetail("field", "quotes")
		}
		for _, part := range quote.Parts {
			if part.PartNumber == "" {
				return apperror.NewValidation("part number is required").
					WithDetail("field", "quotes").
					WithDetail("quoteNo", quote.QuoteNo)
			}
			if part.Quantity < 0 {
				return apperror.NewValidation("part quantity cannot be negative").
					WithDetail("field", "quotes").
					WithDetail("partNumber", part.PartNumber)
			}
			if part.UnitCost.IsNegative() {
				return apperror.NewValidation("unit cost cannot be negative").
					WithDetail("field", "quotes").
					WithDetail("partNumber", part.PartNumber)
			}
		}
	}

	return nil
}
