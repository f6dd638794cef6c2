package ledger

import (
	"context"
	"fmt"
	"time"

	"integratorpro/internal/core/apperror"
	appctx "integratorpro/internal/core/context"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/id"
	"integratorpro/internal/core/tx"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/pkg/logger"
)

// ItemCatalog is the slice of the item catalog the ledger needs: lookups by
// part number and implicit creation during receiving.
type ItemCatalog interface {
	FindByPartNumber(ctx context.Context, partNumber string) (*item.Item, error)
	Create(ctx context.Context, it *item.Item) error
}

// AuditSink accepts append-only adjustment records. No read contract.
type AuditSink interface {
	RecordAdjustment(ctx context.Context, itemID id.ID, adj Adjustment) error
}

// Recorder references the document a movement originates from.
type Recorder struct {
	ID   id.ID
	Type string
}

// Recorder type values.
const (
	RecorderPurchaseOrder = "purchase_order"
	RecorderKittedJob     = "kitted_job"
)

// Service owns all stock mutations. Every operation runs in a transaction
// and locks the item's stock record row, so concurrent operations on the
// same part number serialize while disjoint part numbers proceed in
// parallel.
type Service struct {
	repo      Repository
	items     ItemCatalog
	audit     AuditSink
	txManager tx.Manager
}

// NewService creates a new stock ledger service.
func NewService(repo Repository, items ItemCatalog, audit AuditSink, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		audit:     audit,
		txManager: txManager,
	}
}

// MoveStock transfers quantity between the warehouse and truck pools.
func (s *Service) MoveStock(ctx context.Context, partNumber string, from, to entity.StockPool, qty types.Quantity) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if from == to {
		return apperror.NewInsufficientStock(partNumber, int64(qty), 0).
			WithDetail("reason", "source and destination pools are the same")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.items.FindByPartNumber(ctx, partNumber); err != nil {
			return err
		}

		rec, err := s.repo.GetRecordForUpdate(ctx, partNumber)
		if err != nil {
			return fmt.Errorf("lock stock record: %w", err)
		}

		available := rec.PoolQty(from)
		if qty > available {
			return apperror.NewInsufficientStock(partNumber, int64(qty), int64(available))
		}

		rec.setPoolQty(from, available-qty)
		rec.setPoolQty(to, rec.PoolQty(to)+qty)

		if err := s.repo.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("save stock record: %w", err)
		}

		m := entity.NewStockMovement(partNumber, entity.MovementTransfer, qty).
			WithPools(from, to).
			WithActor(actorFrom(ctx), "")
		if err := s.repo.CreateMovements(ctx, []entity.StockMovement{m}); err != nil {
			return fmt.Errorf("record movement: %w", err)
		}

		logger.Info(ctx, "stock moved",
			"part_number", partNumber,
			"from", from, "to", to,
			"quantity", qty,
		)
		return nil
	})
}

// AdjustCount overrides the warehouse count. Privileged: the acting user
// must have the admin role, and every adjustment is audited.
func (s *Service) AdjustCount(ctx context.Context, partNumber string, newCount types.Quantity, reason string) error {
	if !appctx.IsAdmin(ctx) {
		return apperror.NewForbidden("count adjustment requires admin role")
	}
	if reason == "" {
		return apperror.NewValidation("reason is required").
			WithDetail("field", "reason")
	}
	if newCount < 0 {
		return apperror.NewValidation("count cannot be negative").
			WithDetail("field", "newWarehouseCount")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByPartNumber(ctx, partNumber)
		if err != nil {
			return err
		}

		rec, err := s.repo.GetRecordForUpdate(ctx, partNumber)
		if err != nil {
			return fmt.Errorf("lock stock record: %w", err)
		}

		oldCount := rec.WarehouseQty
		rec.WarehouseQty = newCount

		if err := s.repo.SaveRecord(ctx, rec); err != nil {
			return fmt.Errorf("save stock record: %w", err)
		}

		actor := actorFrom(ctx)
		m := entity.NewStockMovement(partNumber, entity.MovementAdjustment, abs(newCount-oldCount)).
			WithPools("", entity.PoolWarehouse).
			WithActor(actor, reason)
		if err := s.repo.CreateMovements(ctx, []entity.StockMovement{m}); err != nil {
			return fmt.Errorf("record movement: %w", err)
		}

		adj := Adjustment{
			Actor:      actor,
			PartNumber: partNumber,
			OldCount:   oldCount,
			NewCount:   newCount,
			Reason:     reason,
			Timestamp:  time.Now().UTC(),
		}
		if err := s.audit.RecordAdjustment(ctx, it.ID, adj); err != nil {
			return fmt.Errorf("audit adjustment: %w", err)
		}

		logger.Info(ctx, "stock count adjusted",
			"part_number", partNumber,
			"old_count", oldCount,
			"new_count", newCount,
			"actor", actor,
		)
		return nil
	})
}

// Allocate reserves warehouse stock for a job: warehouse down, allocated up.
func (s *Service) Allocate(ctx context.Context, partNumber string, qty types.Quantity, rec *Recorder) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.items.FindByPartNumber(ctx, partNumber); err != nil {
			return err
		}

		record, err := s.repo.GetRecordForUpdate(ctx, partNumber)
		if err != nil {
			return fmt.Errorf("lock stock record: %w", err)
		}

		if qty > record.WarehouseQty {
			return apperror.NewInsufficientStock(partNumber, int64(qty), int64(record.WarehouseQty))
		}

		record.WarehouseQty -= qty
		record.AllocatedQty += qty

		if err := s.repo.SaveRecord(ctx, record); err != nil {
			return fmt.Errorf("save stock record: %w", err)
		}

		m := entity.NewStockMovement(partNumber, entity.MovementAllocation, qty).
			WithPools(entity.PoolWarehouse, entity.PoolAllocated).
			WithActor(actorFrom(ctx), "")
		m = withRecorder(m, rec)
		if err := s.repo.CreateMovements(ctx, []entity.StockMovement{m}); err != nil {
			return fmt.Errorf("record movement: %w", err)
		}
		return nil
	})
}

// Release returns allocated stock to the warehouse. Inverse of Allocate.
func (s *Service) Release(ctx context.Context, partNumber string, qty types.Quantity, rec *Recorder) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.items.FindByPartNumber(ctx, partNumber); err != nil {
			return err
		}

		record, err := s.repo.GetRecordForUpdate(ctx, partNumber)
		if err != nil {
			return fmt.Errorf("lock stock record: %w", err)
		}

		if qty > record.AllocatedQty {
			return apperror.NewInvalidState(
				fmt.Sprintf("cannot release %d units: only %d allocated", qty, record.AllocatedQty)).
				WithDetail("part_number", partNumber)
		}

		record.AllocatedQty -= qty
		record.WarehouseQty += qty

		if err := s.repo.SaveRecord(ctx, record); err != nil {
			return fmt.Errorf("save stock record: %w", err)
		}

		m := entity.NewStockMovement(partNumber, entity.MovementRelease, qty).
			WithPools(entity.PoolAllocated, entity.PoolWarehouse).
			WithActor(actorFrom(ctx), "")
		m = withRecorder(m, rec)
		if err := s.repo.CreateMovements(ctx, []entity.StockMovement{m}); err != nil {
			return fmt.Errorf("record movement: %w", err)
		}
		return nil
	})
}

// Receive adds received units to the warehouse pool. A part number unknown
// to the catalog is created implicitly with default thresholds so receiving
// never blocks on catalog setup.
func (s *Service) Receive(ctx context.Context, partNumber string, qty types.Quantity, unitCost types.Money, rec *Recorder) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureItem(ctx, partNumber, unitCost); err != nil {
			return err
		}

		record, err := s.repo.GetRecordForUpdate(ctx, partNumber)
		if err != nil {
			return fmt.Errorf("lock stock record: %w", err)
		}

		record.WarehouseQty += qty

		if err := s.repo.SaveRecord(ctx, record); err != nil {
			return fmt.Errorf("save stock record: %w", err)
		}

		m := entity.NewStockMovement(partNumber, entity.MovementReceipt, qty).
			WithPools("", entity.PoolWarehouse).
			WithActor(actorFrom(ctx), "")
		m = withRecorder(m, rec)
		if err := s.repo.CreateMovements(ctx, []entity.StockMovement{m}); err != nil {
			return fmt.Errorf("record movement: %w", err)
		}

		logger.Info(ctx, "stock received",
			"part_number", partNumber,
			"quantity", qty,
		)
		return nil
	})
}

// ensureItem creates the catalog entry on first receipt of an unknown part.
func (s *Service) ensureItem(ctx context.Context, partNumber string, unitCost types.Money) error {
	_, err := s.items.FindByPartNumber(ctx, partNumber)
	if err == nil {
		return nil
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	it := item.NewAutoCreated(partNumber)
	it.Cost = unitCost
	if err := s.items.Create(ctx, it); err != nil {
		return fmt.Errorf("auto-create item: %w", err)
	}

	logger.Info(ctx, "item auto-created during receiving",
		"part_number", partNumber,
	)
	return nil
}

// GetStock returns the record with thresholds and derived status.
func (s *Service) GetStock(ctx context.Context, partNumber string) (StockInfo, error) {
	info, err := s.repo.GetStock(ctx, partNumber)
	if err != nil {
		return StockInfo{}, err
	}
	info.Derive()
	return info, nil
}

// ListStock returns stock records with derived statuses.
func (s *Service) ListStock(ctx context.Context, filter StockFilter) ([]StockInfo, error) {
	infos, err := s.repo.ListStock(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range infos {
		infos[i].Derive()
	}
	return infos, nil
}

// GetMovementHistory returns the movement history for a part number.
func (s *Service) GetMovementHistory(ctx context.Context, partNumber string, filter MovementFilter) ([]entity.StockMovement, error) {
	return s.repo.GetMovementHistory(ctx, partNumber, filter)
}

func withRecorder(m entity.StockMovement, rec *Recorder) entity.StockMovement {
	if rec == nil {
		return m
	}
	return m.WithRecorder(rec.ID, rec.Type)
}

func actorFrom(ctx context.Context) string {
	user := appctx.GetUser(ctx)
	if user == nil {
		return ""
	}
	if user.Email != "" {
		return user.Email
	}
	return user.UserID
}

func abs(q types.Quantity) types.Quantity {
	if q < 0 {
		return -q
	}
	return q
}
