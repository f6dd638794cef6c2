package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/entity"
	"integratorpro/internal/domain/ledger"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// StockHandler handles HTTP requests for the stock ledger.
type StockHandler struct {
	*BaseHandler
	service *ledger.Service
}

// NewStockHandler creates a new stock ledger handler.
func NewStockHandler(base *BaseHandler, service *ledger.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /inventory/stock
func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ledger.StockFilter{
		ExcludeZero: c.Query("excludeZero") == "true",
		Limit:       h.ParseIntQuery(c, "limit", 100),
		Offset:      h.ParseIntQuery(c, "offset", 0),
	}

	if pnStr := c.Query("partNumbers"); pnStr != "" {
		filter.PartNumbers = strings.Split(pnStr, ",")
	}

	infos, err := h.service.ListStock(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.StockInfoResponse, len(infos))
	for i, info := range infos {
		items[i] = dto.FromStockInfo(info)
	}

	c.JSON(http.StatusOK, dto.StockListResponse{Items: items})
}

// Get handles GET /inventory/stock/:partNumber
func (h *StockHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	info, err := h.service.GetStock(ctx, c.Param("partNumber"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromStockInfo(info))
}

// GetMovements handles GET /inventory/stock/:partNumber/movements
func (h *StockHandler) GetMovements(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ledger.MovementFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if kindStr := c.Query("kind"); kindStr != "" {
		kind := entity.MovementKind(kindStr)
		filter.Kind = &kind
	}

	// Parse optional date range
	if fromStr := c.Query("fromDate"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			filter.FromDate = &parsed
		}
	}

	if toStr := c.Query("toDate"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			filter.ToDate = &parsed
		}
	}

	movements, err := h.service.GetMovementHistory(ctx, c.Param("partNumber"), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	response := make([]dto.StockMovementResponse, len(movements))
	for i, m := range movements {
		response[i] = dto.FromStockMovement(m)
	}

	c.JSON(http.StatusOK, dto.StockMovementListResponse{
		Items:      response,
		TotalCount: len(response),
	})
}

// Move handles POST /inventory/move
func (h *StockHandler) Move(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.MoveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	from, ok := entity.ParseMovablePool(req.FromPool)
	if !ok {
		h.Error(c, apperror.NewValidation("fromPool must be warehouse or truck").
			WithDetail("field", "fromPool"))
		return
	}

	to, ok := entity.ParseMovablePool(req.ToPool)
	if !ok {
		h.Error(c, apperror.NewValidation("toPool must be warehouse or truck").
			WithDetail("field", "toPool"))
		return
	}

	if err := h.service.MoveStock(ctx, req.PartNumber, from, to, req.Quantity); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock moved")
}

// Adjust handles POST /inventory/adjust. Admin only; the service enforces
// the role server-side regardless of route middleware.
func (h *StockHandler) Adjust(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AdjustCountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.AdjustCount(ctx, req.PartNumber, req.NewWarehouseCount, req.Reason); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock count adjusted")
}

// Receive handles POST /inventory/receive for receipts outside of purchase
// order receiving (e.g. returns, found stock).
func (h *StockHandler) Receive(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Receive(ctx, req.PartNumber, req.Quantity, req.UnitCost, nil); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "stock received")
}
