package kitted_job

import (
	"context"

	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// InvoiceSnapshot is the one-way payload handed to billing when a quote is
// sent. Billing never feeds back into stock state.
type InvoiceSnapshot struct {
	CustomerName  string        `json:"customerName"`
	JobNumber     string        `json:"jobNumber"`
	LineItems     []InvoiceLine `json:"lineItems"`
	TotalAmount   types.Money   `json:"totalAmount"`
	SourceQuoteID id.ID         `json:"sourceQuoteId"`
}

// InvoiceLine is one billed part on the snapshot.
type InvoiceLine struct {
	PartNumber string         `json:"partNumber"`
	Name       string         `json:"name"`
	Quantity   types.Quantity `json:"quantity"`
	UnitPrice  types.Money    `json:"unitPrice"`
}

// BillingGateway turns an invoice snapshot into a persisted invoice and
// returns its identifier.
type BillingGateway interface {
	CreateInvoice(ctx context.Context, snapshot InvoiceSnapshot) (id.ID, error)
}

// Snapshot builds the billing payload for a quote on this job.
func (j *KittedJob) Snapshot(quote *Quote) InvoiceSnapshot {
	lines := make([]InvoiceLine, 0, len(quote.Parts))
	for _, part := range quote.Parts {
		lines = append(lines, InvoiceLine{
			PartNumber: part.PartNumber,
			Name:       part.Name,
			Quantity:   part.Quantity,
			UnitPrice:  part.UnitCost,
		})
	}

	return InvoiceSnapshot{
		CustomerName:  j.CustomerName,
		JobNumber:     j.Number,
		LineItems:     lines,
		TotalAmount:   quote.Total(),
		SourceQuoteID: quote.QuoteID,
	}
}
