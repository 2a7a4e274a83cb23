package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/services"
	"matchday/security"
)

type AdminHandler struct {
	accounts *services.AccountService
}

func NewAdminHandler(accounts *services.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

func (h *AdminHandler) Create(e *core.RequestEvent) error {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "Invalid admin")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return badRequest(e, "Invalid admin")
	}

	id, err := h.accounts.Create(e.Request.Context(), services.KindAdmin, services.CreateAccountParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusCreated, map[string]any{"id": id}, "Admin created successfully")
}

func (h *AdminHandler) Get(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}
	if !ownResource(security.AccountID(e), id) {
		return permissionDenied(e)
	}

	admin, err := h.accounts.GetAdmin(e.Request.Context(), id)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, admin, "Admin retrieved successfully")
}

func (h *AdminHandler) Remove(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}
	if !ownResource(security.AccountID(e), id) {
		return permissionDenied(e)
	}

	if err := h.accounts.Remove(e.Request.Context(), services.KindAdmin, id); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Admin removed successfully")
}
