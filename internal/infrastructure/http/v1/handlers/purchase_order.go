package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/domain/documents/purchase_order"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// PurchaseOrderHandler handles purchase order endpoints.
type PurchaseOrderHandler struct {
	*BaseHandler
	service *purchase_order.Service
}

// NewPurchaseOrderHandler creates a new purchase order handler.
func NewPurchaseOrderHandler(base *BaseHandler, service *purchase_order.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/purchase-orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := purchase_order.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")
	filter.OpenOnly = c.Query("openOnly") == "true"

	if statusStr := c.Query("status"); statusStr != "" {
		status := purchase_order.Status(statusStr)
		filter.Status = &status
	}

	if vendorStr := c.Query("vendorId"); vendorStr != "" {
		parsed, err := id.Parse(vendorStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid vendorId format"))
			return
		}
		filter.VendorID = &parsed
	}

	if fromStr := c.Query("dateFrom"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.DateFrom = &parsed
		}
	}
	if toStr := c.Query("dateTo"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.DateTo = &parsed
		}
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, po := range result.Items {
		items[i] = dto.FromPurchaseOrder(po)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /document/purchase-orders
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid vendorId format"))
		return
	}

	if err := h.service.Create(ctx, po); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPurchaseOrder(po))
}

// Get handles GET /document/purchase-orders/:id
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	po, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(po))
}

// Delete handles DELETE /document/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddLine handles POST /document/purchase-orders/:id/lines
func (h *PurchaseOrderHandler) AddLine(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.AddPurchaseOrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po, err := h.service.AddLine(ctx, docID, req.PartNumber, req.Description, req.Quantity, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(po))
}

// UpdateLine handles PUT /document/purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) UpdateLine(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	lineID, err := id.Parse(c.Param("lineId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid lineId format"))
		return
	}

	var req dto.UpdatePurchaseOrderLineRequest
	if !h.BindJSON(c, &req) {
		return
	}

	po, err := h.service.UpdateLine(ctx, docID, lineID, req.Quantity, req.UnitCost)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(po))
}

// RemoveLine handles DELETE /document/purchase-orders/:id/lines/:lineId
func (h *PurchaseOrderHandler) RemoveLine(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	lineID, err := id.Parse(c.Param("lineId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid lineId format"))
		return
	}

	po, err := h.service.RemoveLine(ctx, docID, lineID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(po))
}

// Send handles POST /document/purchase-orders/:id/send
func (h *PurchaseOrderHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Send(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase order sent")
}

// Cancel handles POST /document/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "purchase order cancelled")
}

// Receive handles POST /document/purchase-orders/:id/receive.
// One request is one receiving session: each entry is capped at the line's
// ordered quantity, stock is received, and the order flips to received
// once every line is cumulatively fulfilled.
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.ReceivePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	session, err := h.service.BeginReceiving(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	for _, line := range req.Lines {
		lineID, err := id.Parse(line.LineID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid lineId format").
				WithDetail("lineId", line.LineID))
			return
		}
		if err := session.RecordReceipt(lineID, line.Quantity); err != nil {
			h.Error(c, err)
			return
		}
	}

	po, err := h.service.CommitReceiving(ctx, docID, session)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchaseOrder(po))
}

// RegisterRoutes registers the lifecycle routes on top of the shared CRUD set.
func (h *PurchaseOrderHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/:id/lines", h.AddLine)
	group.PUT("/:id/lines/:lineId", h.UpdateLine)
	group.DELETE("/:id/lines/:lineId", h.RemoveLine)
	group.POST("/:id/send", h.Send)
	group.POST("/:id/cancel", h.Cancel)
	group.POST("/:id/receive", h.Receive)
}

func (h *PurchaseOrderHandler) parseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
