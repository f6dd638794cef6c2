// Package entity provides core domain entities.
package entity

import (
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
)

// StockPool identifies one of the tracked stock locations for an item.
type StockPool string

const (
	// PoolWarehouse is on-hand stock in the warehouse
	PoolWarehouse StockPool = "warehouse"
	// PoolTruck is stock loaded on service vehicles
	PoolTruck StockPool = "truck"
	// PoolAllocated is stock reserved for jobs (carved out of warehouse)
	PoolAllocated StockPool = "allocated"
)

// ParseMovablePool validates a pool name for transfer operations.
// Only warehouse and truck are valid transfer endpoints; the allocated
// pool changes exclusively through allocate/release.
func ParseMovablePool(s string) (StockPool, bool) {
	switch StockPool(s) {
	case PoolWarehouse, PoolTruck:
		return StockPool(s), true
	default:
		return "", false
	}
}

// MovementKind classifies a stock register entry.
type MovementKind string

const (
	// MovementReceipt adds units to the warehouse pool
	MovementReceipt MovementKind = "receipt"
	// MovementTransfer moves units between warehouse and truck
	MovementTransfer MovementKind = "transfer"
	// MovementAllocation reserves warehouse units for a job
	MovementAllocation MovementKind = "allocation"
	// MovementRelease returns reserved units to the warehouse
	MovementRelease MovementKind = "release"
	// MovementAdjustment is a privileged override of the warehouse count
	MovementAdjustment MovementKind = "adjustment"
)

// StockMovement is an immutable register entry describing one change to
// an item's stock record. Movements are never updated, only appended.
type StockMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// PartNumber identifies the item whose record changed
	PartNumber string `db:"part_number" json:"partNumber"`

	// Kind classifies the movement
	Kind MovementKind `db:"kind" json:"kind"`

	// FromPool and ToPool name the pools affected (empty when not applicable,
	// e.g. a receipt has no source pool)
	FromPool StockPool `db:"from_pool" json:"fromPool,omitempty"`
	ToPool   StockPool `db:"to_pool" json:"toPool,omitempty"`

	// Quantity is the number of units moved (always positive; direction
	// comes from the pools and kind)
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// Actor is the user who triggered the movement
	Actor string `db:"actor" json:"actor,omitempty"`

	// Reason is a free-form note (required for adjustments)
	Reason string `db:"reason" json:"reason,omitempty"`

	// RecorderID/RecorderType reference the document that produced the
	// movement (purchase order receipt, job allocation). Nil for manual ops.
	RecorderID   *id.ID `db:"recorder_id" json:"recorderId,omitempty"`
	RecorderType string `db:"recorder_type" json:"recorderType,omitempty"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewStockMovement creates a movement entry with generated LineID.
func NewStockMovement(partNumber string, kind MovementKind, qty types.Quantity) StockMovement {
	return StockMovement{
		LineID:     id.New(),
		PartNumber: partNumber,
		Kind:       kind,
		Quantity:   qty,
		CreatedAt:  time.Now().UTC(),
	}
}

// WithPools sets the affected pools.
func (m StockMovement) WithPools(from, to StockPool) StockMovement {
	m.FromPool = from
	m.ToPool = to
	return m
}

// WithActor sets the acting user and reason.
func (m StockMovement) WithActor(actor, reason string) StockMovement {
	m.Actor = actor
	m.Reason = reason
	return m
}

// WithRecorder links the movement to the document that produced it.
func (m StockMovement) WithRecorder(recorderID id.ID, recorderType string) StockMovement {
	m.RecorderID = &recorderID
	m.RecorderType = recorderType
	return m
}
