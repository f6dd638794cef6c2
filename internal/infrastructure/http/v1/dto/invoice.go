package dto

import (
	"time"

	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/documents/invoice"
)

// --- Request DTOs ---

// SendInvoiceRequest transitions an invoice to sent. When dueDate is
// omitted the default payment term applies.
type SendInvoiceRequest struct {
	DueDate *time.Time `json:"dueDate"`
}

// --- Response DTOs ---

// InvoiceLineResponse is one billed line in an invoice response.
type InvoiceLineResponse struct {
	LineID     string         `json:"lineId"`
	LineNo     int            `json:"lineNo"`
	PartNumber string         `json:"partNumber,omitempty"`
	Name       string         `json:"name,omitempty"`
	Quantity   types.Quantity `json:"quantity"`
	UnitPrice  types.Money    `json:"unitPrice"`
}

// InvoiceResponse is the response body for an invoice.
type InvoiceResponse struct {
	DocumentResponse
	CustomerName  string                `json:"customerName"`
	JobNumber     string                `json:"jobNumber,omitempty"`
	SourceQuoteID *string               `json:"sourceQuoteId,omitempty"`
	Status        string                `json:"status"`
	DueDate       *time.Time            `json:"dueDate,omitempty"`
	PaidAt        *time.Time            `json:"paidAt,omitempty"`
	TotalAmount   types.Money           `json:"totalAmount"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// FromInvoice creates response DTO from domain entity.
func FromInvoice(inv *invoice.Invoice) *InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = InvoiceLineResponse{
			LineID:     line.LineID.String(),
			LineNo:     line.LineNo,
			PartNumber: line.PartNumber,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
		}
	}

	resp := &InvoiceResponse{
		DocumentResponse: FromDocument(inv.Document),
		CustomerName:     inv.CustomerName,
		JobNumber:        inv.JobNumber,
		Status:           string(inv.Status),
		DueDate:          inv.DueDate,
		PaidAt:           inv.PaidAt,
		TotalAmount:      inv.TotalAmount,
		Lines:            lines,
	}
	if inv.SourceQuoteID != nil {
		s := inv.SourceQuoteID.String()
		resp.SourceQuoteID = &s
	}
	return resp
}
