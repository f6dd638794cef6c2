package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/apperror"
	"integratorpro/internal/core/id"
	"integratorpro/internal/domain/documents/kitted_job"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// KittedJobHandler handles kitted job endpoints.
type KittedJobHandler struct {
	*BaseHandler
	service *kitted_job.Service
}

// NewKittedJobHandler creates a new kitted job handler.
func NewKittedJobHandler(base *BaseHandler, service *kitted_job.Service) *KittedJobHandler {
	return &KittedJobHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /document/jobs
func (h *KittedJobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := kitted_job.ListFilter{}
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.Query("orderBy")
	filter.ActiveOnly = c.Query("activeOnly") == "true"

	if statusStr := c.Query("status"); statusStr != "" {
		status := kitted_job.Status(statusStr)
		filter.Status = &status
	}

	if customerStr := c.Query("customerId"); customerStr != "" {
		parsed, err := id.Parse(customerStr)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &parsed
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
	for i, job := range result.Items {
		items[i] = dto.FromKittedJob(job)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Create handles POST /document/jobs
func (h *KittedJobHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateKittedJobRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := req.ToEntity()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customerId format"))
		return
	}

	if err := h.service.Create(ctx, job); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromKittedJob(job))
}

// Get handles GET /document/jobs/:id
func (h *KittedJobHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	job, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromKittedJob(job))
}

// Delete handles DELETE /document/jobs/:id
func (h *KittedJobHandler) Delete(c *gin.Context) {
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

// AddQuote handles POST /document/jobs/:id/quotes
func (h *KittedJobHandler) AddQuote(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req dto.AddQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.service.AddQuote(ctx, docID, req.Name)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromKittedJob(job))
}

// RemoveQuote handles DELETE /document/jobs/:id/quotes/:quoteId
func (h *KittedJobHandler) RemoveQuote(c *gin.Context) {
	ctx := c.Request.Context()

	docID, quoteID, ok := h.parseQuoteIDs(c)
	if !ok {
		return
	}

	job, err := h.service.RemoveQuote(ctx, docID, quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromKittedJob(job))
}

// SetPartQuantity handles PUT /document/jobs/:id/quotes/:quoteId/parts/:partNumber.
// The target quantity is absolute; the service allocates or releases the
// difference against warehouse stock.
func (h *KittedJobHandler) SetPartQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	docID, quoteID, ok := h.parseQuoteIDs(c)
	if !ok {
		return
	}

	var req dto.SetPartQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.service.SetPartQuantity(ctx, docID, quoteID, c.Param("partNumber"), req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromKittedJob(job))
}

// RemovePart handles DELETE /document/jobs/:id/quotes/:quoteId/parts/:partNumber
func (h *KittedJobHandler) RemovePart(c *gin.Context) {
	ctx := c.Request.Context()

	docID, quoteID, ok := h.parseQuoteIDs(c)
	if !ok {
		return
	}

	job, err := h.service.RemovePart(ctx, docID, quoteID, c.Param("partNumber"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromKittedJob(job))
}

// SendQuoteToBilling handles POST /document/jobs/:id/quotes/:quoteId/send-to-billing
func (h *KittedJobHandler) SendQuoteToBilling(c *gin.Context) {
	ctx := c.Request.Context()

	docID, quoteID, ok := h.parseQuoteIDs(c)
	if !ok {
		return
	}

	invoiceID, err := h.service.SendQuoteToBilling(ctx, docID, quoteID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIDResponse(invoiceID))
}

// Cancel handles POST /document/jobs/:id/cancel
func (h *KittedJobHandler) Cancel(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "job cancelled")
}

// RegisterRoutes registers the quote and billing routes on top of the
// shared CRUD set.
func (h *KittedJobHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/:id/quotes", h.AddQuote)
	group.DELETE("/:id/quotes/:quoteId", h.RemoveQuote)
	group.PUT("/:id/quotes/:quoteId/parts/:partNumber", h.SetPartQuantity)
	group.DELETE("/:id/quotes/:quoteId/parts/:partNumber", h.RemovePart)
	group.POST("/:id/quotes/:quoteId/send-to-billing", h.SendQuoteToBilling)
	group.POST("/:id/cancel", h.Cancel)
}

func (h *KittedJobHandler) parseID(c *gin.Context) (id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return docID, true
}

func (h *KittedJobHandler) parseQuoteIDs(c *gin.Context) (id.ID, id.ID, bool) {
	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), id.Nil(), false
	}

	quoteID, err := id.Parse(c.Param("quoteId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid quoteId format"))
		return id.Nil(), id.Nil(), false
	}

	return docID, quoteID, true
}
