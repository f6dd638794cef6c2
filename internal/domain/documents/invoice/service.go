package invoice

import (
	"context"
	"fmt"
	"time"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/numerator"
	"integratorpro/internal/core/tx"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/documents/kitted_job"
	"integratorpro/pkg/logger"
)

// Service provides business operations for invoices.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new invoice service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		numerator: gen,
		txManager: txManager,
	}
}

// CreateInvoice implements kitted_job.BillingGateway: it turns a quote
// snapshot into a draft invoice and returns its identifier.
func (s *Service) CreateInvoice(ctx context.Context, snapshot kitted_job.InvoiceSnapshot) (id.ID, error) {
	inv := NewInvoice(snapshot.CustomerName)
	inv.JobNumber = snapshot.JobNumber
	quoteID := snapshot.SourceQuoteID
	inv.SourceQuoteID = &quoteID

	for _, item := range snapshot.LineItems {
		inv.AddLine(item.PartNumber, item.Name, item.Quantity, item.UnitPrice)
	}

	if err := s.Create(ctx, inv); err != nil {
		return id.Nil(), err
	}

	return inv.ID, nil
}

// Create creates a new draft invoice.
func (s *Service) Create(ctx context.Context, doc *Invoice) error {
	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if doc.Status != StatusDraft {
		return apperror.NewInvalidState("invoices are created in draft").
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

		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "invoice created",
		"id", doc.ID,
		"number", doc.Number,
		"customer", doc.CustomerName,
		"total", doc.TotalAmount)

	return nil
}

// GetByID retrieves an invoice with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Invoice, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// GetByNumber retrieves an invoice by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*Invoice, error) {
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	doc.Lines = lines

	return doc, nil
}

// Send transitions a draft invoice to sent and stamps the due date.
func (s *Service) Send(ctx context.Context, docID id.ID, dueDate *time.Time) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if inv.Status != StatusDraft {
			return apperror.NewInvalidState("only draft invoices can be sent").
				WithDetail("status", string(inv.Status))
		}

		inv.Status = StatusSent
		if dueDate != nil {
			inv.DueDate = dueDate
		} else {
			due := time.Now().UTC().Add(DefaultPaymentTerm)
			inv.DueDate = &due
		}

		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "invoice sent", "number", inv.Number, "due_date", inv.DueDate)
		return nil
	})
}

// MarkPaid records payment on a sent or overdue invoice.
func (s *Service) MarkPaid(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if inv.Status != StatusSent && inv.Status != StatusOverdue {
			return apperror.NewInvalidState("only sent or overdue invoices can be paid").
				WithDetail("status", string(inv.Status))
		}

		now := time.Now().UTC()
		inv.Status = StatusPaid
		inv.PaidAt = &now

		if err := s.repo.Update(ctx, inv); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "invoice paid", "number", inv.Number)
		return nil
	})
}

// MarkOverdue flips sent invoices past their due date to overdue and
// returns how many were flipped. Meant to run periodically.
func (s *Service) MarkOverdue(ctx context.Context, now time.Time) (int, error) {
	due := now
	result, err := s.repo.List(ctx, ListFilter{
		UnpaidOnly: true,
		DueBefore:  &due,
	})
	if err != nil {
		return 0, err
	}

	flipped := 0
	for _, inv := range result.Items {
		if inv.Status != StatusSent {
			continue
		}

		err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			locked, err := s.repo.GetForUpdate(ctx, inv.ID)
			if err != nil {
				return err
			}
			if !locked.IsOverdue(now) || locked.Status != StatusSent {
				return nil
			}
			locked.Status = StatusOverdue
			return s.repo.Update(ctx, locked)
		})
		if err != nil {
			return flipped, err
		}
		flipped++
	}

	if flipped > 0 {
		logger.Info(ctx, "invoices marked overdue", "count", flipped)
	}
	return flipped, nil
}

// Delete soft-deletes a draft invoice. Issued invoices are kept.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != StatusDraft {
		return apperror.NewInvalidState("only draft invoices can be deleted").
			WithDetail("status", string(doc.Status))
	}

	return s.repo.Delete(ctx, docID)
}

// List retrieves invoices with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Invoice], error) {
	return s.repo.List(ctx, filter)
}

// Ensure the service satisfies the allocator's billing contract.
var _ kitted_job.BillingGateway = (*Service)(nil)
