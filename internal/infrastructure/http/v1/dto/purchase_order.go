package dto

import (
	"time"

	"integratorpro/internal/core/id"
	"integratorpro/internal/core/types"
	"integratorpro/internal/domain/documents/purchase_order"
)

// --- Request DTOs ---

// CreatePurchaseOrderRequest is the request body for creating a purchase order.
type CreatePurchaseOrderRequest struct {
	VendorID         string                     `json:"vendorId" binding:"required,uuid"`
	Date             *time.Time                 `json:"date"`
	ExpectedDelivery *time.Time                 `json:"expectedDelivery"`
	Comment          string                     `json:"comment"`
	Lines            []PurchaseOrderLineRequest `json:"lines"`
}

// PurchaseOrderLineRequest is one ordered line in a create request.
type PurchaseOrderLineRequest struct {
	PartNumber  string         `json:"partNumber" binding:"required"`
	Description string         `json:"description"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	UnitCost    types.Money    `json:"unitCost"`
}

// ToEntity converts DTO to domain entity.
func (r *CreatePurchaseOrderRequest) ToEntity() (*purchase_order.PurchaseOrder, error) {
	vendorID, err := id.Parse(r.VendorID)
	if err != nil {
		return nil, err
	}

	po := purchase_order.NewPurchaseOrder(vendorID)
	if r.Date != nil {
		po.Date = *r.Date
	}
	po.ExpectedDelivery = r.ExpectedDelivery
	po.Comment = r.Comment

	for _, line := range r.Lines {
		po.AddLine(line.PartNumber, line.Description, line.Quantity, line.UnitCost)
	}

	return po, nil
}

// AddPurchaseOrderLineRequest appends a line to an existing order.
type AddPurchaseOrderLineRequest struct {
	PartNumber  string         `json:"partNumber" binding:"required"`
	Description string         `json:"description"`
	Quantity    types.Quantity `json:"quantity" binding:"required"`
	UnitCost    types.Money    `json:"unitCost"`
}

// UpdatePurchaseOrderLineRequest changes quantity and cost of a line.
type UpdatePurchaseOrderLineRequest struct {
	Quantity types.Quantity `json:"quantity" binding:"required"`
	UnitCost types.Money    `json:"unitCost"`
}

// ReceivePurchaseOrderRequest records one receiving session against an order.
type ReceivePurchaseOrderRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1"`
}

// ReceiveLineRequest is the received quantity for one order line.
type ReceiveLineRequest struct {
	LineID   string         `json:"lineId" binding:"required,uuid"`
	Quantity types.Quantity `json:"quantity"`
}

// --- Response DTOs ---

// PurchaseOrderLineResponse is one line in a purchase order response.
type PurchaseOrderLineResponse struct {
	LineID           string         `json:"lineId"`
	LineNo           int            `json:"lineNo"`
	PartNumber       string         `json:"partNumber"`
	Description      string         `json:"description,omitempty"`
	QuantityOrdered  types.Quantity `json:"quantityOrdered"`
	QuantityReceived types.Quantity `json:"quantityReceived"`
	UnitCost         types.Money    `json:"unitCost"`
	Amount           types.Money    `json:"amount"`
}

// PurchaseOrderResponse is the response body for a purchase order.
type PurchaseOrderResponse struct {
	DocumentResponse
	VendorID         string                      `json:"vendorId"`
	ExpectedDelivery *time.Time                  `json:"expectedDelivery,omitempty"`
	Status           string                      `json:"status"`
	TotalAmount      types.Money                 `json:"totalAmount"`
	Lines            []PurchaseOrderLineResponse `json:"lines"`
}

// FromPurchaseOrder creates response DTO from domain entity.
func FromPurchaseOrder(po *purchase_order.PurchaseOrder) *PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, len(po.Lines))
	for i, line := range po.Lines {
		lines[i] = PurchaseOrderLineResponse{
			LineID:           line.LineID.String(),
			LineNo:           line.LineNo,
			PartNumber:       line.PartNumber,
			Description:      line.Description,
			QuantityOrdered:  line.QuantityOrdered,
			QuantityReceived: line.QuantityReceived,
			UnitCost:         line.UnitCost,
			Amount:           line.Amount(),
		}
	}

	return &PurchaseOrderResponse{
		DocumentResponse: FromDocument(po.Document),
		VendorID:         po.VendorID.String(),
		ExpectedDelivery: po.ExpectedDelivery,
		Status:           string(po.Status),
		TotalAmount:      po.TotalAmount,
		Lines:            lines,
	}
}
