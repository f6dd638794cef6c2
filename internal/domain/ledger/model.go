// Package ledger provides the stock ledger: per-item quantities across the
// warehouse, truck, and allocated pools, with status derived from catalog
// thresholds. All stock mutations in the system go through this package.
package ledger

import (
	"time"

	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/types"
)

// Status is the derived stock level indicator for an item.
type Status string

const (
	StatusInStock     Status = "In Stock"
	StatusLowStock    Status = "Low Stock"
	StatusOutOfStock  Status = "Out of Stock"
	StatusOverstocked Status = "Overstocked"
)

// StockRecord holds the pool quantities for one item. Allocated stock is a
// claim carved out of warehouse stock, not a separate physical pool, so it
// does not count toward TotalStock.
type StockRecord struct {
	// PartNumber identifies the item
	PartNumber string `db:"part_number" json:"partNumber"`

	// WarehouseQty is on-hand stock in the warehouse
	WarehouseQty types.Quantity `db:"warehouse_qty" json:"warehouseStock"`

	// TruckQty is stock loaded on service vehicles
	TruckQty types.Quantity `db:"truck_qty" json:"truckStock"`

	// AllocatedQty is stock reserved for jobs
	AllocatedQty types.Quantity `db:"allocated_qty" json:"allocatedStock"`

	// UpdatedAt is when the record last changed
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TotalStock returns physical stock on hand: warehouse plus truck.
func (r *StockRecord) TotalStock() types.Quantity {
	return r.WarehouseQty + r.TruckQty
}

// PoolQty returns the current quantity in the given pool.
func (r *StockRecord) PoolQty(pool entity.StockPool) types.Quantity {
	switch pool {
	case entity.PoolWarehouse:
		return r.WarehouseQty
	case entity.PoolTruck:
		return r.TruckQty
	case entity.PoolAllocated:
		return r.AllocatedQty
	default:
		return 0
	}
}

func (r *StockRecord) setPoolQty(pool entity.StockPool, qty types.Quantity) {
	switch pool {
	case entity.PoolWarehouse:
		r.WarehouseQty = qty
	case entity.PoolTruck:
		r.TruckQty = qty
	case entity.PoolAllocated:
		r.AllocatedQty = qty
	}
}

// DeriveStatus computes the stock status from total stock and the item's
// thresholds. It is a pure function; the status is never stored.
//
// maxStock == 0 means "unbounded", so Overstocked never applies.
func DeriveStatus(total, minStock, maxStock types.Quantity) Status {
	switch {
	case total == 0:
		return StatusOutOfStock
	case total <= minStock:
		return StatusLowStock
	case maxStock > 0 && total >= maxStock:
		return StatusOverstocked
	default:
		return StatusInStock
	}
}

// StockInfo is a stock record joined with the owning item's thresholds,
// plus the derived status.
type StockInfo struct {
	StockRecord

	// Name is the item display name
	Name string `db:"name" json:"name"`

	// MinStock and MaxStock are the item's thresholds
	MinStock types.Quantity `db:"min_stock" json:"minStock"`
	MaxStock types.Quantity `db:"max_stock" json:"maxStock"`

	// Status is derived, never stored
	Status Status `db:"-" json:"status"`
}

// Derive recomputes the status from the current quantities.
func (i *StockInfo) Derive() {
	i.Status = DeriveStatus(i.TotalStock(), i.MinStock, i.MaxStock)
}

// Adjustment is the audit payload produced by a privileged count override.
type Adjustment struct {
	Actor      string         `json:"actor"`
	PartNumber string         `json:"partNumber"`
	OldCount   types.Quantity `json:"oldCount"`
	NewCount   types.Quantity `json:"newCount"`
	Reason     string         `json:"reason"`
	Timestamp  time.Time      `json:"timestamp"`
}
