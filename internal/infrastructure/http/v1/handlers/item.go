package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/id"
	"integratorpro/internal/domain"
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/internal/infrastructure/http/v1/dto"
)

// ItemHandler handles item catalog endpoints, including free-text search.
type ItemHandler struct {
	*CatalogHandler[*item.Item, dto.CreateItemRequest, dto.UpdateItemRequest]
	service *item.Service
}

// NewItemHandler creates a configured item handler.
func NewItemHandler(base *BaseHandler, service *item.Service) *ItemHandler {
	config := CatalogHandlerConfig[
		*item.Item,
		dto.CreateItemRequest,
		dto.UpdateItemRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "item",

		MapCreateDTO: func(req dto.CreateItemRequest) *item.Item {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) *item.Item {
			req.ApplyTo(existing)
			return existing
		},

		MapToDTO: func(entity *item.Item) any {
			return dto.FromItem(entity)
		},
	}

	return &ItemHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
	}
}

// Search handles GET /catalog/items/search - case-insensitive substring
// search over part number, name, description, manufacturer, and tags,
// intersected with optional filters.
func (h *ItemHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	filters := item.SearchFilters{
		Category:     c.Query("category"),
		Manufacturer: c.Query("manufacturer"),
	}

	if vendorStr := c.Query("vendorId"); vendorStr != "" {
		parsed, err := id.Parse(vendorStr)
		if err == nil {
			filters.VendorID = &parsed
		}
	}

	if tagsStr := c.Query("tags"); tagsStr != "" {
		filters.Tags = strings.Split(tagsStr, ",")
	}

	listFilter := domain.DefaultListFilter()
	listFilter.Limit = h.ParseIntQuery(c, "limit", 50)
	listFilter.Offset = h.ParseIntQuery(c, "offset", 0)
	listFilter.OrderBy = c.DefaultQuery("orderBy", "part_number")

	result, err := h.service.Search(ctx, c.Query("q"), filters, listFilter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, it := range result.Items {
		items[i] = dto.FromItem(it)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// GetByPartNumber handles GET /catalog/items/by-part-number/:partNumber
func (h *ItemHandler) GetByPartNumber(c *gin.Context) {
	ctx := c.Request.Context()

	it, err := h.service.FindByPartNumber(ctx, c.Param("partNumber"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromItem(it))
}
