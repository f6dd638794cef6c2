package purchase_order

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
	"integratorpro/internal/domain/ledger"
	"integratorpro/pkg/logger"
)

// StockReceiver is the slice of the stock ledger the tracker drives:
// committed receipts flow into the warehouse pool.
type StockReceiver interface {
	Receive(ctx context.Context, partNumber string, qty types.Quantity, unitCost types.Money, rec *ledger.Recorder) error
}

// Service provides business operations for purchase orders.
type Service struct {
	repo      Repository
	stock     StockReceiver
	numerator numerator.Generator
	txManager tx.Manager
	hooks     *domain.HookRegistry[*PurchaseOrder]
}

// NewService creates a new purchase order service.
func NewService(
	repo Repository,
	stock StockReceiver,
	numerator numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		stock:     stock,
		numerator: numerator,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*PurchaseOrder](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*PurchaseOrder] {
	return s.hooks
}

// Create creates a new purchase order in draft.
func (s *Service) Create(ctx context.Context, doc *PurchaseOrder) error {
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = StatusDraft
	}
	if doc.Status != StatusDraft {
		return apperror.NewInvalidState("purchase orders are created in draft").
			WithDetail("status", string(doc.Status))
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Number generation rides the transaction, so the sequence row and
		// the order commit together.
		if doc.Number == "" {
			number, err := s.numerator.GetNextNumber(ctx, NumberConfig, &numerator.Options{Strategy: NumeratorStrategy}, time.Now())
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

	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "purchase order created",
		"id", doc.ID,
		"number", doc.Number,
		"vendor_id", doc.VendorID)

	return nil
}

// GetByID retrieves a purchase order with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
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

// GetByNumber retrieves a purchase order by its number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
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

// Update updates an order's header and lines. Permitted in draft and sent.
func (s *Service) Update(ctx context.Context, doc *PurchaseOrder) error {
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			return err
		}
		if err := existing.CanModify(); err != nil {
			return err
		}
		// Status transitions go through Send/Cancel/CommitReceiving only.
		doc.Status = existing.Status

		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		if err := s.repo.SaveLines(ctx, doc.ID, doc.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		return nil
	})
}

// AddLine appends a line to an open order.
func (s *Service) AddLine(ctx context.Context, docID id.ID, partNumber, description string, qty types.Quantity, unitCost types.Money) (*PurchaseOrder, error) {
	if partNumber == "" {
		return nil, apperror.NewValidation("part number is required").
			WithDetail("field", "partNumber")
	}
	if qty <= 0 {
		return nil, apperror.NewValidation("ordered quantity must be positive").
			WithDetail("field", "quantityOrdered")
	}
	if unitCost.IsNegative() {
		return nil, apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	return s.mutateLines(ctx, docID, func(po *PurchaseOrder) error {
		po.AddLine(partNumber, description, qty, unitCost)
		return nil
	})
}

// UpdateLine changes quantity and unit cost of a line on an open order.
func (s *Service) UpdateLine(ctx context.Context, docID, lineID id.ID, qty types.Quantity, unitCost types.Money) (*PurchaseOrder, error) {
	if qty <= 0 {
		return nil, apperror.NewValidation("ordered quantity must be positive").
			WithDetail("field", "quantityOrdered")
	}
	if unitCost.IsNegative() {
		return nil, apperror.NewValidation("unit cost cannot be negative").
			WithDetail("field", "unitCost")
	}

	return s.mutateLines(ctx, docID, func(po *PurchaseOrder) error {
		return po.UpdateLine(lineID, qty, unitCost)
	})
}

// RemoveLine removes a line from an open order.
func (s *Service) RemoveLine(ctx context.Context, docID, lineID id.ID) (*PurchaseOrder, error) {
	return s.mutateLines(ctx, docID, func(po *PurchaseOrder) error {
		return po.RemoveLine(lineID)
	})
}

// mutateLines loads the order with a row lock, applies fn, and persists.
func (s *Service) mutateLines(ctx context.Context, docID id.ID, fn func(po *PurchaseOrder) error) (*PurchaseOrder, error) {
	var result *PurchaseOrder

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if err := po.CanModify(); err != nil {
			return err
		}

		if err := fn(po); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, po.ID, po.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Send transitions draft to sent. No side effect on stock.
func (s *Service) Send(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if po.Status != StatusDraft {
			return apperror.NewInvalidState("only draft orders can be sent").
				WithDetail("status", string(po.Status))
		}

		po.Status = StatusSent
		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "purchase order sent", "number", po.Number)
		return nil
	})
}

// Cancel transitions draft or sent to cancelled. Terminal.
func (s *Service) Cancel(ctx context.Context, docID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if !po.IsOpen() {
			return apperror.NewInvalidState("only draft or sent orders can be cancelled").
				WithDetail("status", string(po.Status))
		}

		po.Status = StatusCancelled
		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update document: %w", err)
		}

		logger.Info(ctx, "purchase order cancelled", "number", po.Number)
		return nil
	})
}

// BeginReceiving opens a receiving session for an open order.
func (s *Service) BeginReceiving(ctx context.Context, docID id.ID) (*ReceivingSession, error) {
	po, err := s.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}

	if !po.IsOpen() {
		return nil, apperror.NewInvalidState("receiving is only possible for draft or sent orders").
			WithDetail("status", string(po.Status))
	}

	return NewReceivingSession(po), nil
}

// CommitReceiving applies a receiving session: every line with a non-zero
// session quantity is received into the warehouse and accumulated on the
// line. The order transitions to received iff every line's cumulative
// received quantity covers its ordered quantity; otherwise it stays open.
func (s *Service) CommitReceiving(ctx context.Context, docID id.ID, session *ReceivingSession) (*PurchaseOrder, error) {
	if session == nil {
		return nil, apperror.NewValidation("receiving session is required")
	}
	if session.POID != docID {
		return nil, apperror.NewValidation("receiving session belongs to a different order").
			WithDetail("sessionPoId", session.POID.String())
	}

	var result *PurchaseOrder

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.loadForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if !po.IsOpen() {
			return apperror.NewInvalidState("receiving is only possible for draft or sent orders").
				WithDetail("status", string(po.Status))
		}

		recorder := &ledger.Recorder{ID: po.ID, Type: ledger.RecorderPurchaseOrder}

		for i := range po.Lines {
			line := &po.Lines[i]

			qty := session.Quantity(line.LineID)
			if qty <= 0 {
				continue
			}

			if err := s.stock.Receive(ctx, line.PartNumber, qty, line.UnitCost, recorder); err != nil {
				return fmt.Errorf("receive %s: %w", line.PartNumber, err)
			}
			line.QuantityReceived += qty
		}

		if po.AllLinesFulfilled() {
			po.Status = StatusReceived
		}

		if err := s.repo.Update(ctx, po); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if err := s.repo.SaveLines(ctx, po.ID, po.Lines); err != nil {
			return fmt.Errorf("save lines: %w", err)
		}

		logger.Info(ctx, "receiving committed",
			"number", po.Number,
			"status", po.Status)

		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete soft-deletes an order. Received orders are kept for history.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status == StatusReceived {
		return apperror.NewInvalidState("received orders cannot be deleted").
			WithDetail("status", string(doc.Status))
	}

	return s.repo.Delete(ctx, docID)
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return s.repo.List(ctx, filter)
}

// loadForUpdate fetches the document with a row lock plus its lines.
func (s *Service) loadForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	po, err := s.repo.GetForUpdate(ctx, docID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repo.GetLines(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	po.Lines = lines
	return po, nil
}
