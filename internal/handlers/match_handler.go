package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"matchday/internal/services"
)

type MatchHandler struct {
	catalog *services.CatalogService
}

func NewMatchHandler(catalog *services.CatalogService) *MatchHandler {
	return &MatchHandler{catalog: catalog}
}

type categoryRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Capacity int             `json:"capacity"`
}

func (r categoryRequest) valid() bool {
	return r.Name != "" && r.Price.IsPositive() && r.Capacity >= 1
}

func (h *MatchHandler) Create(e *core.RequestEvent) error {
	var req struct {
		Teams      []string          `json:"teams"`
		Date       string            `json:"date"`
		Stadium    string            `json:"stadium"`
		Categories []categoryRequest `json:"categories"`
	}
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "Invalid match")
	}
	if len(req.Teams) != 2 || req.Teams[0] == "" || req.Teams[1] == "" {
		return badRequest(e, "Invalid teams")
	}
	if req.Stadium == "" {
		return badRequest(e, "Invalid stadium")
	}
	if len(req.Categories) == 0 {
		return badRequest(e, "Invalid categories")
	}

	date, ok := parseDate(req.Date)
	if !ok {
		return badRequest(e, "Invalid date")
	}

	params := services.MatchParams{
		HomeTeam: req.Teams[0],
		AwayTeam: req.Teams[1],
		Date:     date,
		Stadium:  req.Stadium,
	}
	for _, category := range req.Categories {
		if !category.valid() {
			return badRequest(e, "Invalid category")
		}
		params.Categories = append(params.Categories, services.CategoryParams{
			Name:     category.Name,
			Price:    category.Price,
			Capacity: category.Capacity,
		})
	}

	match, categories, err := h.catalog.CreateMatch(e.Request.Context(), params)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusCreated, map[string]any{
		"match":      match,
		"categories": categories,
	}, "Match created successfully")
}

func (h *MatchHandler) Get(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid match id")
	}

	match, err := h.catalog.GetMatch(e.Request.Context(), id, true)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, match, "Match retrieved successfully")
}

func (h *MatchHandler) GetAll(e *core.RequestEvent) error {
	matches, err := h.catalog.ListMatches(e.Request.Context())
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, matches, "Matches retrieved successfully")
}

func (h *MatchHandler) Update(e *core.RequestEvent) error {
	var req struct {
		ID      string `json:"id"`
		Date    string `json:"date"`
		Stadium string `json:"stadium"`
	}
	if err := e.BindBody(&req); err != nil || req.ID == "" {
		return badRequest(e, "Invalid match id")
	}
	if req.Date == "" && req.Stadium == "" {
		return badRequest(e, "Invalid update")
	}

	var date *time.Time
	if req.Date != "" {
		parsed, ok := parseDate(req.Date)
		if !ok {
			return badRequest(e, "Invalid date")
		}
		date = &parsed
	}

	if err := h.catalog.UpdateMatch(e.Request.Context(), req.ID, date, req.Stadium); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, nil, "Match updated successfully")
}

func (h *MatchHandler) AddCategory(e *core.RequestEvent) error {
	var req struct {
		MatchID  string           `json:"matchId"`
		Category *categoryRequest `json:"category"`
	}
	if err := e.BindBody(&req); err != nil || req.MatchID == "" {
		return badRequest(e, "Invalid match id")
	}
	if req.Category == nil || !req.Category.valid() {
		return badRequest(e, "Invalid category")
	}

	category, err := h.catalog.AddCategory(e.Request.Context(), req.MatchID, services.CategoryParams{
		Name:     req.Category.Name,
		Price:    req.Category.Price,
		Capacity: req.Category.Capacity,
	})
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, category, "Category added successfully")
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
