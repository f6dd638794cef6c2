package dto

import (
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/documents/kitted_job"
)

// --- Request DTOs ---

// CreateKittedJobRequest is the request body for creating a job.
type CreateKittedJobRequest struct {
	CustomerID   *string    `json:"customerId"`
	CustomerName string     `json:"customerName" binding:"required"`
	Date         *time.Time `json:"date"`
	Comment      string     `json:"comment"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateKittedJobRequest) ToEntity() (*kitted_job.KittedJob, error) {
	job := kitted_job.NewKittedJob(r.CustomerName)
	if r.CustomerID != nil {
		parsed, err := id.Parse(*r.CustomerID)
		if err != nil {
			return nil, err
		}
		job.CustomerID = &parsed
	}
	if r.Date != nil {
		job.Date = *r.Date
	}
	job.Comment = r.Comment
	return job, nil
}

// AddQuoteRequest adds a quote to a job.
type AddQuoteRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetPartQuantityRequest sets the target quantity for a part on a quote.
// The stock ledger is adjusted by the difference to the current quantity.
type SetPartQuantityRequest struct {
	Quantity types.Quantity `json:"quantity"`
}

// --- Response DTOs ---

// JobPartResponse is one kitted part in a quote response.
type JobPartResponse struct {
	PartNumber string         `json:"partNumber"`
	Name       string         `json:"name"`
	Quantity   types.Quantity `json:"quantity"`
	UnitCost   types.Money    `json:"unitCost"`
	Amount     types.Money    `json:"amount"`
}

// QuoteResponse is one quote in a job response.
type QuoteResponse struct {
	QuoteID   string            `json:"quoteId"`
	QuoteNo   int               `json:"quoteNo"`
	Name      string            `json:"name"`
	InvoiceID *string           `json:"invoiceId,omitempty"`
	Total     types.Money       `json:"total"`
	Parts     []JobPartResponse `json:"parts"`
}

// KittedJobResponse is the response body for a job.
type KittedJobResponse struct {
	DocumentResponse
	CustomerID   *string         `json:"customerId,omitempty"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	TotalValue   types.Money     `json:"totalValue"`
	Quotes       []QuoteResponse `json:"quotes"`
}

// FromKittedJob creates response DTO from domain entity.
func FromKittedJob(job *kitted_job.KittedJob) *KittedJobResponse {
	quotes := make([]QuoteResponse, len(job.Quotes))
	for i := range job.Quotes {
		quotes[i] = fromQuote(&job.Quotes[i])
	}

	resp := &KittedJobResponse{
		DocumentResponse: FromDocument(job.Document),
		CustomerName:     job.CustomerName,
		Status:           string(job.Status),
		TotalValue:       job.TotalValue,
		Quotes:           quotes,
	}
	if job.CustomerID != nil {
		s := job.CustomerID.String()
		resp.CustomerID = &s
	}
	return resp
}

func fromQuote(q *kitted_job.Quote) QuoteResponse {
	parts := make([]JobPartResponse, len(q.Parts))
	for i, p := range q.Parts {
		parts[i] = JobPartResponse{
			PartNumber: p.PartNumber,
			Name:       p.Name,
			Quantity:   p.Quantity,
			UnitCost:   p.UnitCost,
			Amount:     p.Amount(),
		}
	}

	resp := QuoteResponse{
		QuoteID: q.QuoteID.String(),
		QuoteNo: q.QuoteNo,
		Name:    q.Name,
		Total:   q.Total(),
		Parts:   parts,
	}
	if q.InvoiceID != nil {
		s := q.InvoiceID.String()
		resp.InvoiceID = &s
	}
	return resp
}
