package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"matchday/internal/services"
)

type CategoryHandler struct {
	catalog *services.CatalogService
	prices  *services.PriceCache
}

func NewCategoryHandler(catalog *services.CatalogService, prices *services.PriceCache) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, prices: prices}
}

// Update renames or reprices a category and can grow its capacity in
// the same call; the cached price is dropped so trades pick up the new
// one on the next resolve.
func (h *CategoryHandler) Update(e *core.RequestEvent) error {
	var req struct {
		CategoryID    string           `json:"categoryId"`
		Name          string           `json:"name"`
		Price         *decimal.Decimal `json:"price"`
		ExtraCapacity int              `json:"extraCapacity"`
	}
	if err := e.BindBody(&req); err != nil || req.CategoryID == "" {
		return badRequest(e, "Please provide valid inputs")
	}
	if req.Name == "" && req.Price == nil && req.ExtraCapacity == 0 {
		return badRequest(e, "Please provide valid inputs")
	}
	if req.Price != nil && !req.Price.IsPositive() {
		return badRequest(e, "Please provide valid inputs")
	}
	if req.ExtraCapacity < 0 {
		return badRequest(e, "Please provide valid inputs")
	}

	ctx := e.Request.Context()

	if req.Name != "" || req.Price != nil {
		if err := h.catalog.UpdateCategory(ctx, req.CategoryID, req.Name, req.Price); err != nil {
			return fail(e, err)
		}
		if req.Price != nil {
			h.prices.InvalidatePrice(ctx, req.CategoryID)
		}
	}

	var result any = map[string]any{}
	if req.ExtraCapacity > 0 {
		category, err := h.catalog.AddTickets(ctx, req.CategoryID, req.ExtraCapacity)
		if err != nil {
			return fail(e, err)
		}
		result = category
	}

	return respond(e, http.StatusOK, result, "Category updated successfully")
}

func (h *CategoryHandler) AddTickets(e *core.RequestEvent) error {
	var req struct {
		CategoryID string `json:"categoryId"`
		Count      int    `json:"count"`
	}
	if err := e.BindBody(&req); err != nil || req.CategoryID == "" || req.Count < 1 {
		return badRequest(e, "Please provide valid inputs")
	}

	category, err := h.catalog.AddTickets(e.Request.Context(), req.CategoryID, req.Count)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusCreated, category, "Tickets added successfully")
}
