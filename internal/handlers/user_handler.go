package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"matchday/internal/services"
	"matchday/security"
)

type UserHandler struct {
	accounts *services.AccountService
	ledger   *services.TicketService
	trade    *services.TradeService
}

func NewUserHandler(accounts *services.AccountService, ledger *services.TicketService, trade *services.TradeService) *UserHandler {
	return &UserHandler{accounts: accounts, ledger: ledger, trade: trade}
}

func (h *UserHandler) Create(e *core.RequestEvent) error {
	var req struct {
		FirstName string           `json:"firstName"`
		LastName  string           `json:"lastName"`
		Email     string           `json:"email"`
		Password  string           `json:"password"`
		Budget    *decimal.Decimal `json:"budget"`
	}
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "Invalid user")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		return badRequest(e, "Invalid user")
	}
	if req.Budget != nil && req.Budget.IsNegative() {
		return badRequest(e, "Invalid budget")
	}

	id, err := h.accounts.Create(e.Request.Context(), services.KindUser, services.CreateAccountParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Budget:    req.Budget,
	})
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusCreated, map[string]any{"id": id}, "User created successfully")
}

func (h *UserHandler) Get(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}
	if !ownResource(security.AccountID(e), id) {
		return permissionDenied(e)
	}

	user, err := h.accounts.GetUser(e.Request.Context(), id)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, user, "User retrieved successfully")
}

func (h *UserHandler) Remove(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}
	if !ownResource(security.AccountID(e), id) {
		return permissionDenied(e)
	}

	if err := h.accounts.Remove(e.Request.Context(), services.KindUser, id); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "User removed successfully")
}

func (h *UserHandler) Buy(e *core.RequestEvent) error {
	userID, ticketID, err := h.tradeRequest(e)
	if err != nil {
		return err
	}

	if err := h.trade.Buy(e.Request.Context(), userID, ticketID); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Ticket bought successfully")
}

func (h *UserHandler) Sell(e *core.RequestEvent) error {
	userID, ticketID, err := h.tradeRequest(e)
	if err != nil {
		return err
	}

	if err := h.trade.Sell(e.Request.Context(), userID, ticketID); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Ticket sold successfully")
}

// tradeRequest validates the shared buy/sell body. The userId in the
// body must match the authenticated account; a non-nil error is the
// already-written response.
func (h *UserHandler) tradeRequest(e *core.RequestEvent) (userID, ticketID string, err error) {
	var req struct {
		UserID   string `json:"userId"`
		TicketID string `json:"ticketId"`
	}
	if bindErr := e.BindBody(&req); bindErr != nil || req.UserID == "" {
		return "", "", badRequest(e, "Invalid userId")
	}
	if !ownResource(security.AccountID(e), req.UserID) {
		return "", "", permissionDenied(e)
	}
	if req.TicketID == "" {
		return "", "", badRequest(e, "Invalid ticketId")
	}
	return req.UserID, req.TicketID, nil
}

func (h *UserHandler) IncreaseBudget(e *core.RequestEvent) error {
	var req struct {
		UserID string           `json:"userId"`
		Amount *decimal.Decimal `json:"amount"`
	}
	if err := e.BindBody(&req); err != nil || req.UserID == "" {
		return badRequest(e, "Invalid userId")
	}
	if !ownResource(security.AccountID(e), req.UserID) {
		return permissionDenied(e)
	}
	if req.Amount == nil || !req.Amount.IsPositive() {
		return badRequest(e, "Invalid amount")
	}

	if err := h.accounts.AdjustBudget(e.Request.Context(), req.UserID, *req.Amount); err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, map[string]any{}, "Budget increased successfully")
}

func (h *UserHandler) Tickets(e *core.RequestEvent) error {
	id := e.Request.PathValue("id")
	if id == "" {
		return badRequest(e, "Invalid id")
	}
	if !ownResource(security.AccountID(e), id) {
		return permissionDenied(e)
	}

	tickets, err := h.ledger.ByOwner(e.Request.Context(), id)
	if err != nil {
		return fail(e, err)
	}

	return respond(e, http.StatusOK, tickets, "Tickets retrieved successfully")
}
