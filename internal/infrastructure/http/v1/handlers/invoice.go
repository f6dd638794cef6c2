package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/domain/documents/invoice"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// InvoiceHandler handles invoice endpoints. Invoices are created by
// sending a job quote to billing; there is no direct create endpoint.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := invoice.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")
	filter.UnpaidOnly = c.Query("unpaidOnly") == "true"

	if statusStr := c.Query("status"); statusStr != "" {
		status := invoice.Status(statusStr)
		filter.Status = &status
	}

	if dueStr := c.Query("dueBefore"); dueStr != "" {
		if parsed, err := time.Parse(time.RFC3339, dueStr); err == nil {
			filter.DueBefore = &parsed
		}
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
	for i, inv := range result.Items {
		items[i] = dto.FromInvoice(inv)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /document/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromInvoice(inv))
}

// Delete handles DELETE /document/invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
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

// Send handles POST /document/invoices/:id/send
func (h *InvoiceHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.SendInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Send(ctx, docID, req.DueDate); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "invoice sent")
}

// MarkPaid handles POST /document/invoices/:id/mark-paid
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.MarkPaid(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "invoice marked paid")
}

// MarkOverdue handles POST /document/invoices/mark-overdue. Sweeps sent
// invoices whose due date has passed and returns how many were flagged.
func (h *InvoiceHandler) MarkOverdue(c *gin.Context) {
	ctx := c.Request.Context()

	count, err := h.service.MarkOverdue(ctx, time.Now())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": count})
}

// RegisterRoutes registers the lifecycle routes on top of the shared
// CRUD set.
func (h *InvoiceHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/mark-overdue", h.MarkOverdue)
	group.POST("/:id/send", h.Send)
	group.POST("/:id/mark-paid", h.MarkPaid)
}

func (h *InvoiceHandler) parseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}
