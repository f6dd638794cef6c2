package dto

import (
	"time"

	"integratorpro/internal/core/entity"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/ledger"
)

// --- Request DTOs ---

// MoveStockRequest transfers quantity between the warehouse and truck pools.
type MoveStockRequest struct {
	PartNumber string         `json:"partNumber" binding:"required"`
	FromPool   string         `json:"fromPool" binding:"required"`
	ToPool     string         `json:"toPool" binding:"required"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
}

// AdjustCountRequest overrides the warehouse count. Admin only.
type AdjustCountRequest struct {
	PartNumber        string         `json:"partNumber" binding:"required"`
	NewWarehouseCount types.Quantity `json:"newWarehouseCount"`
	Reason            string         `json:"reason" binding:"required"`
}

// ReceiveStockRequest adds received units outside of purchase order receiving.
type ReceiveStockRequest struct {
	PartNumber string         `json:"partNumber" binding:"required"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	UnitCost   types.Money    `json:"unitCost"`
}

// --- Response DTOs ---

// StockInfoResponse is one item's stock record with derived status.
type StockInfoResponse struct {
	PartNumber     string         `json:"partNumber"`
	Name           string         `json:"name"`
	WarehouseStock types.Quantity `json:"warehouseStock"`
	TruckStock     types.Quantity `json:"truckStock"`
	AllocatedStock types.Quantity `json:"allocatedStock"`
	TotalStock     types.Quantity `json:"totalStock"`
	MinStock       types.Quantity `json:"minStock"`
	MaxStock       types.Quantity `json:"maxStock"`
	Status         string         `json:"status"`
	UpdatedAt      *time.Time     `json:"updatedAt,omitempty"`
}

// FromStockInfo converts a ledger record to response DTO.
func FromStockInfo(info ledger.StockInfo) StockInfoResponse {
	var updatedAt *time.Time
	if !info.UpdatedAt.IsZero() {
		val := info.UpdatedAt
		updatedAt = &val
	}

	return StockInfoResponse{
		PartNumber:     info.PartNumber,
		Name:           info.Name,
		WarehouseStock: info.WarehouseQty,
		TruckStock:     info.TruckQty,
		AllocatedStock: info.AllocatedQty,
		TotalStock:     info.TotalStock(),
		MinStock:       info.MinStock,
		MaxStock:       info.MaxStock,
		Status:         string(info.Status),
		UpdatedAt:      updatedAt,
	}
}

// StockListResponse represents a list of stock records.
type StockListResponse struct {
	Items []StockInfoResponse `json:"items"`
}

// StockMovementResponse represents a stock movement in API responses.
type StockMovementResponse struct {
	LineID       string         `json:"lineId"`
	PartNumber   string         `json:"partNumber"`
	Kind         string         `json:"kind"`
	FromPool     string         `json:"fromPool,omitempty"`
	ToPool       string         `json:"toPool,omitempty"`
	Quantity     types.Quantity `json:"quantity"`
	Actor        string         `json:"actor,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	RecorderID   string         `json:"recorderId,omitempty"`
	RecorderType string         `json:"recorderType,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// FromStockMovement converts entity to response DTO.
func FromStockMovement(m entity.StockMovement) StockMovementResponse {
	resp := StockMovementResponse{
		LineID:       m.LineID.String(),
		PartNumber:   m.PartNumber,
		Kind:         string(m.Kind),
		FromPool:     string(m.FromPool),
		ToPool:       string(m.ToPool),
		Quantity:     m.Quantity,
		Actor:        m.Actor,
		Reason:       m.Reason,
		RecorderType: m.RecorderType,
		CreatedAt:    m.CreatedAt,
	}
	if m.RecorderID != nil {
		resp.RecorderID = m.RecorderID.String()
	}
	return resp
}

// StockMovementListResponse represents a list of stock movements.
type StockMovementListResponse struct {
	Items      []StockMovementResponse `json:"items"`
	TotalCount int                     `json:"totalCount,omitempty"`
}
