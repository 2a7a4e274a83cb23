package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/services"
)

type TeamHandler struct {
	catalog *services.CatalogService
}

func NewTeamHandler(catalog *services.CatalogService) *TeamHandler {
	return &TeamHandler{catalog: catalog}
}

func (h *TeamHandler) Create(e *core.RequestEvent) error {
	var req struct {
		Name      string `json:"name"`
		ShortName string `json:"shortName"`
		Logo      string `json:"logo"`
	}
	if err := e.BindBody(&req); err != nil || req.Name == "" || req.ShortName == "" {
		return badRequest(e, "Invalid team")
	}

	id, err := h.catalog.CreateTeam(e.Request.Context(), req.Name, req.ShortName, req.Logo)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusCreated, map[string]any{"id": id}, "Team created successfully")
}

func (h *TeamHandler) Get(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}

	team, err := h.catalog.GetTeam(e.Request.Context(), id)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, team, "Team retrieved successfully")
}

func (h *TeamHandler) Update(e *core.RequestEvent) error {
	var req struct {
		ID        string  `json:"id"`
		Name      string  `json:"name"`
		ShortName string  `json:"shortName"`
		Logo      *string `json:"logo"`
	}
	if err := e.BindBody(&req); err != nil || req.ID == "" {
		return badRequest(e, "Invalid id")
	}
	if req.Name == "" && req.ShortName == "" && req.Logo == nil {
		return badRequest(e, "No data provided")
	}

	err := h.catalog.UpdateTeam(e.Request.Context(), services.TeamUpdateParams{
		ID:        req.ID,
		Name:      req.Name,
		ShortName: req.ShortName,
		Logo:      req.Logo,
	})
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Team updated successfully")
}

func (h *TeamHandler) Remove(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}

	if err := h.catalog.RemoveTeam(e.Request.Context(), id); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Team removed successfully")
}
