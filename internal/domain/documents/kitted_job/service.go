package kitted_job

import (
	"context"
	"fmt"
	"time"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/numerator"
	"integratorpro/internal/core/tx"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/internal/domain/ledger"
	"integratorpro/pkg/logger"
)

// StockAllocator is the slice of the stock ledger the allocator drives:
// quote edits move stock between the warehouse and allocated pools.
type StockAllocator interface {
	Allocate(ctx context.Context, partNumber string, qty types.Quantity, rec *ledger.Recorder) error
	Release(ctx context.Context, partNumber string, qty types.Quantity, rec *ledger.Recorder) error
}

// PartCatalog resolves part numbers to item master data. Part name and
// price are captured on the quote when the part is first added.
type PartCatalog interface {
	FindByPartNumber(ctx context.Context, partNumber string) (*item.Item, error)
}

// Service provides business operations for kitted jobs.
type Service struct {
	repo      Repository
	stock     StockAllocator
	catalog   PartCatalog
	billing   BillingGateway
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new kitted job service.
func NewService(
	repo Repository,
	stock StockAllocator,
	catalog PartCatalog,
	billing BillingGateway,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		catalog:   catalog,
		billing:   billing,
		numerator: gen,
		txManager: txManager,
	}
}

// Create creates a new active job.
func (s *Service) Create(ctx context.Context, doc *KittedJob) error {
	if doc.Status == "" {
		doc.Status = StatusActive
	}
	if doc.Status != StatusActive {
		return apperror.NewInvalidState("jobs are created in active status").
			WithDetail("status", string(doc.Status))
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if doc.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, NumberConfig, numerator.DefaultOptions(), time.Now())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			doc.Number = number
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}

		if err := s.repo.SaveQuotes(ctx, doc.ID, doc.Quotes); err != nil {
			return fmt.Errorf("save quotes: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "kitted job created",
		"id", doc.ID,
		"number", doc.Number,
		"customer", doc.CustomerName)

	return nil
}

// GetByID retrieves a job with its quotes.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*KittedJob, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	quotes, err := s.repo.GetQuotes(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}
	doc.Quotes = quotes

	return doc, nil
}

// GetByNumber retrieves a job by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*KittedJob, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	quotes, err := s.repo.GetQuotes(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}
	doc.Quotes = quotes

	return doc, nil
}

// AddQuote appends an empty quote to an active job.
func (s *Service) AddQuote(ctx context.Context, docID id.ID, name string) (*KittedJob, error) {
	if name == "" {
		return nil, apperror.NewValidation("quote name is required").
			WithDetail("field", "name")
	}

	return s.mutate(ctx, docID, func(ctx context.Context, job *KittedJob) error {
		job.AddQuote(name)
		return nil
	})
}

// RemoveQuote releases the quote's allocations back to the warehouse and
// removes the quote.
func (s *Service) RemoveQuote(ctx context.Context, docID, quoteID id.ID) (*KittedJob, error) {
	return s.mutate(ctx, docID, func(ctx context.Context, job *KittedJob) error {
		quote, err := job.FindQuote(quoteID)
		if err != nil {
			return err
		}

		rec := &ledger.Recorder{ID: job.ID, Type: ledger.RecorderKittedJob}
		for _, part := range quote.Parts {
			if part.Quantity <= 0 {
				continue
			}
			if err := s.stock.Release(ctx, part.PartNumber, part.Quantity, rec); err != nil {
				return fmt.Errorf("release %s: %w", part.PartNumber, err)
			}
		}

		return job.RemoveQuote(quoteID)
	})
}

// SetPartQuantity sets the quantity of a part on a quote. The difference
// against the current quantity is allocated from, or released back to, the
// warehouse pool. An unknown part number is added to the quote with name
// and price taken from the item master.
func (s *Service) SetPartQuantity(ctx context.Context, docID, quoteID id.ID, partNumber string, newQty types.Quantity) (*KittedJob, error) {
	if partNumber == "" {
		return nil, apperror.NewValidation("part number is required").
			WithDetail("field", "partNumber")
	}
	if newQty < 0 {
		return nil, apperror.NewValidation("quantity cannot be negative").
			WithDetail("field", "quantity")
	}

	return s.mutate(ctx, docID, func(ctx context.Context, job *KittedJob) error {
		quote, err := job.FindQuote(quoteID)
		if err != nil {
			return err
		}

		part := quote.FindPart(partNumber)
		if part == nil {
			it, err := s.catalog.FindByPartNumber(ctx, partNumber)
			if err != nil {
				return err
			}
			quote.Parts = append(quote.Parts, JobPart{
				PartNumber: it.PartNumber,
				Name:       it.Name,
				UnitCost:   it.Price,
			})
			part = &quote.Parts[len(quote.Parts)-1]
		}

		delta := newQty - part.Quantity
		rec := &ledger.Recorder{ID: job.ID, Type: ledger.RecorderKittedJob}

		switch {
		case delta > 0:
			if err := s.stock.Allocate(ctx, partNumber, delta, rec); err != nil {
				return err
			}
		case delta < 0:
			if err := s.stock.Release(ctx, partNumber, -delta, rec); err != nil {
				return err
			}
		}

		part.Quantity = newQty
		return nil
	})
}

// RemovePart releases the part's allocation and removes it from the quote.
func (s *Service) RemovePart(ctx context.Context, docID, quoteID id.ID, partNumber string) (*KittedJob, error) {
	return s.mutate(ctx, docID, func(ctx context.Context, job *KittedJob) error {
		quote, err := job.FindQuote(quoteID)
		if err != nil {
			return err
		}

		for i := range quote.Parts {
			if quote.Parts[i].PartNumber != partNumber {
				continue
			}

			if qty := quote.Parts[i].Quantity; qty > 0 {
				rec := &ledger.Recorder{ID: job.ID, Type: ledger.RecorderKittedJob}
				if err := s.stock.Release(ctx, partNumber, qty, rec); err != nil {
					return fmt.Errorf("release %s: %w", partNumber, err)
				}
			}

			quote.Parts = append(quote.Parts[:i], quote.Parts[i+1:]...)
			return nil
		}

		return apperror.NewNotFound("job part", partNumber)
	})
}

// SendQuoteToBilling emits the quote's invoice snapshot to billing, tags
// the quote with the resulting invoice id, and completes the job. The
// transition is one-way: stock stays allocated and is not re-validated.
func (s *Service) SendQuoteToBilling(ctx context.Context, docID, quoteID id.ID) (id.ID, error) {
	var invoiceID id.ID

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		job, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := job.CanModify(); err != nil {
			return err
		}

		quote, err := job.FindQuote(quoteID)
		if err != nil {
			return err
		}
		if quote.IsBilled() {
			return apperror.NewInvalidState("quote has already been sent to billing").
				WithDetail("invoiceId", quote.InvoiceID.String())
		}

		invoiceID, err = s.billing.CreateInvoice(ctx, job.Snapshot(quote))
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		quote.InvoiceID = &invoiceID
		job.Status = StatusCompleted
		job.RecalculateTotals()

		if err := s.repo.Update(ctx, job); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveQuotes(ctx, job.ID, job.Quotes); err != nil {
			return fmt.Errorf("save quotes: %w", err)
		}

		logger.Info(ctx, "quote sent to billing",
			"number", job.Number,
			"quote_id", quoteID,
			"invoice_id", invoiceID)

		return nil
	})
	if err != nil {
		return id.Nil(), err
	}

	return invoiceID, nil
}

// Cancel releases every allocation on the job and cancels it. Terminal.
func (s *Service) Cancel(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		job, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := job.CanModify(); err != nil {
			return err
		}

		rec := &ledger.Recorder{ID: job.ID, Type: ledger.RecorderKittedJob}
		for qi := range job.Quotes {
			for pi := range job.Quotes[qi].Parts {
				part := &job.Quotes[qi].Parts[pi]
				if part.Quantity <= 0 {
					continue
				}
				if err := s.stock.Release(ctx, part.PartNumber, part.Quantity, rec); err != nil {
					return fmt.Errorf("release %s: %w", part.PartNumber, err)
				}
				part.Quantity = 0
			}
		}

		job.Status = StatusCancelled
		job.RecalculateTotals()

		if err := s.repo.Update(ctx, job); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveQuotes(ctx, job.ID, job.Quotes); err != nil {
			return fmt.Errorf("save quotes: %w", err)
		}

		logger.Info(ctx, "kitted job cancelled", "number", job.Number)
		return nil
	})
}

// Delete soft-deletes a job. Active jobs hold allocated stock and must be
// cancelled first.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status == StatusActive {
		return apperror.NewInvalidState("active jobs must be cancelled before deletion").
			WithDetail("status", string(doc.Status))
	}

	return s.repo.Delete(ctx, docID)
}

// List retrieves jobs with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*KittedJob], error) {
	return s.repo.List(ctx, filter)
}

// mutate loads the job with a row lock, checks it is editable, applies fn,
// recalculates totals, and persists.
func (s *Service) mutate(ctx context.Context, docID id.ID, fn func(ctx context.Context, job *KittedJob) error) (*KittedJob, error) {
	var result *KittedJob

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		job, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := job.CanModify(); err != nil {
			return err
		}

		if err := fn(ctx, job); err != nil {
			return err
		}
		job.RecalculateTotals()

		if err := s.repo.Update(ctx, job); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveQuotes(ctx, job.ID, job.Quotes); err != nil {
			return fmt.Errorf("save quotes: %w", err)
		}

		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadForUpdate fetches the document with a row lock plus its quotes.
func (s *Service) loadForUpdate(ctx context.Context, docID id.ID) (*KittedJob, error) {
	job, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		return nil, err
	}
	quotes, err := s.repo.GetQuotes(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get quotes: %w", err)
	}
	job.Quotes = quotes
	return job, nil
}
