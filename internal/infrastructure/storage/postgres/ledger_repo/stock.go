// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/ledger"
	"integratorpro/internal/infrastructure/storage/postgres"
)

const (
	stockRecordsTable   = "reg_stock_records"
	stockMovementsTable = "reg_stock_movements"
)

var movementColumns = []string{
	"line_id", "part_number", "kind", "from_pool", "to_pool",
	"quantity", "actor", "reason", "recorder_id", "recorder_type", "created_at",
}

// StockRepo implements ledger.Repository.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetRecord returns the stock record for a part number.
// A part with no movements yet yields a zero-quantity record.
func (r *StockRepo) GetRecord(ctx context.Context, partNumber string) (ledger.StockRecord, error) {
	var rec ledger.StockRecord

	q := r.builder.Select(
		"part_number", "warehouse_qty", "truck_qty", "allocated_qty", "updated_at",
	).From(stockRecordsTable).
		Where(squirrel.Eq{"part_number": partNumber}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return rec, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.StockRecord{PartNumber: partNumber}, nil
		}
		return rec, fmt.Errorf("get stock record: %w", err)
	}

	return rec, nil
}

// GetRecordForUpdate returns the record with a pessimistic lock.
func (r *StockRepo) GetRecordForUpdate(ctx context.Context, partNumber string) (ledger.StockRecord, error) {
	var rec ledger.StockRecord

	sql := `
		SELECT part_number, warehouse_qty, truck_qty, allocated_qty, updated_at
		FROM reg_stock_records
		WHERE part_number = $1
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &rec, sql, partNumber); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.StockRecord{PartNumber: partNumber}, nil
		}
		return rec, fmt.Errorf("get stock record for update: %w", err)
	}

	return rec, nil
}

// SaveRecord upserts the record.
func (r *StockRepo) SaveRecord(ctx context.Context, rec ledger.StockRecord) error {
	sql := `
		INSERT INTO reg_stock_records (part_number, warehouse_qty, truck_qty, allocated_qty, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (part_number) DO UPDATE SET
			warehouse_qty = EXCLUDED.warehouse_qty,
			truck_qty     = EXCLUDED.truck_qty,
			allocated_qty = EXCLUDED.allocated_qty,
			updated_at    = EXCLUDED.updated_at
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		rec.PartNumber, rec.WarehouseQty, rec.TruckQty, rec.AllocatedQty, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save stock record: %w", err)
	}

	return nil
}

// GetStock returns a record joined with item thresholds.
func (r *StockRepo) GetStock(ctx context.Context, partNumber string) (ledger.StockInfo, error) {
	var info ledger.StockInfo

	sql := `
		SELECT
			i.part_number,
			COALESCE(s.warehouse_qty, 0) AS warehouse_qty,
			COALESCE(s.truck_qty, 0)     AS truck_qty,
			COALESCE(s.allocated_qty, 0) AS allocated_qty,
			COALESCE(s.updated_at, i.updated_at) AS updated_at,
			i.name, i.min_stock, i.max_stock
		FROM cat_items i
		LEFT JOIN reg_stock_records s ON s.part_number = i.part_number
		WHERE i.part_number = $1 AND i.deletion_mark = false
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &info, sql, partNumber); err != nil {
		if pgxscan.NotFound(err) {
			return info, apperror.NewNotFound("item", partNumber)
		}
		return info, fmt.Errorf("get stock: %w", err)
	}

	return info, nil
}

// ListStock returns records joined with item thresholds.
func (r *StockRepo) ListStock(ctx context.Context, filter ledger.StockFilter) ([]ledger.StockInfo, error) {
	q := r.builder.Select(
		"i.part_number",
		"COALESCE(s.warehouse_qty, 0) AS warehouse_qty",
		"COALESCE(s.truck_qty, 0) AS truck_qty",
		"COALESCE(s.allocated_qty, 0) AS allocated_qty",
		"COALESCE(s.updated_at, i.updated_at) AS updated_at",
		"i.name", "i.min_stock", "i.max_stock",
	).From("cat_items i").
		LeftJoin("reg_stock_records s ON s.part_number = i.part_number").
		Where(squirrel.Eq{"i.deletion_mark": false})

	if len(filter.PartNumbers) > 0 {
		q = q.Where(squirrel.Eq{"i.part_number": filter.PartNumbers})
	}

	if filter.ExcludeZero {
		q = q.Where("COALESCE(s.warehouse_qty, 0) + COALESCE(s.truck_qty, 0) + COALESCE(s.allocated_qty, 0) <> 0")
	}

	q = q.OrderBy("i.part_number")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var infos []ledger.StockInfo
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &infos, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}

	return infos, nil
}

// CreateMovements appends register entries.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, movementRow(m))
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}

	// Fallback: non-transactional insert. Prefer calling within tx.
	q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
	for _, m := range movements {
		q = q.Values(movementRow(m)...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

func movementRow(m entity.StockMovement) []any {
	return []any{
		m.LineID, m.PartNumber, m.Kind, m.FromPool, m.ToPool,
		m.Quantity, m.Actor, m.Reason, m.RecorderID, m.RecorderType, m.CreatedAt,
	}
}

// GetMovementHistory returns movement history for a part number.
func (r *StockRepo) GetMovementHistory(ctx context.Context, partNumber string, filter ledger.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"part_number": partNumber})

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.ToDate})
	}

	q = q.OrderBy("created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// Ensure interface compliance.
var _ ledger.Repository = (*StockRepo)(nil)
