package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/auth"
	"matchday/internal/services"
	"matchday/monitoring"
)

type AuthHandler struct {
	accounts *services.AccountService
	tokens   *auth.TokenService
}

func NewAuthHandler(accounts *services.AccountService, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

func (h *AuthHandler) LoginUser(e *core.RequestEvent) error {
	return h.login(e, services.KindUser, "User logged in successfully")
}

func (h *AuthHandler) LoginAdmin(e *core.RequestEvent) error {
	return h.login(e, services.KindAdmin, "Admin logged in successfully")
}

// login reuses the account's stored token while it still verifies;
// otherwise it issues a fresh one and persists it so the stored-token
// fallback in the bearer middleware keeps working.
func (h *AuthHandler) login(e *core.RequestEvent, kind services.Kind, message string) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := e.BindBody(&req); err != nil || req.Email == "" || req.Password == "" {
		monitoring.TrackAuth(string(kind), "login_invalid")
		return badRequest(e, "Invalid credentials")
	}

	ctx := e.Request.Context()

	creds, err := h.accounts.Credentials(ctx, kind, req.Email)
	if err != nil {
		monitoring.TrackAuth(string(kind), "login_failed")
		return fail(e, err)
	}
	if err := h.accounts.VerifyPassword(creds.PasswordHash, req.Password); err != nil {
		monitoring.TrackAuth(string(kind), "login_failed")
		return fail(e, err)
	}

	token := ""
	if creds.Token != "" {
		if _, err := h.tokens.Verify(creds.Token); err == nil {
			token = creds.Token
		}
	}
	if token == "" {
		token, err = h.tokens.Issue(creds.ID)
		if err != nil {
			return fail(e, err)
		}
		if err := h.accounts.SaveToken(ctx, kind, creds.ID, token); err != nil {
			return fail(e, err)
		}
	}

	monitoring.TrackAuth(string(kind), "login_ok")
	return respond(e, http.StatusOK, token, message)
}

// IsLogged checks a user session. A token that fails verification but
// matches the stored one is rotated: a fresh token is issued, persisted,
// and returned as the response data; nil data means the presented token
// is still good.
func (h *AuthHandler) IsLogged(e *core.RequestEvent) error {
	var req struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := e.BindBody(&req); err != nil || req.Token == "" || req.UserID == "" {
		return respond(e, http.StatusUnauthorized, nil, "Invalid token")
	}

	subject, err := h.tokens.Subject(req.Token)
	if err != nil {
		return respond(e, http.StatusUnauthorized, nil, "Token is invalid.")
	}
	if subject != req.UserID {
		return permissionDenied(e)
	}

	ctx := e.Request.Context()

	var rotated any
	if _, err := h.tokens.Verify(req.Token); err != nil {
		if err := h.accounts.ControlToken(ctx, services.KindUser, subject, req.Token); err != nil {
			return permissionDenied(e)
		}

		fresh, err := h.tokens.Issue(subject)
		if err != nil {
			return fail(e, err)
		}
		if err := h.accounts.SaveToken(ctx, services.KindUser, subject, fresh); err != nil {
			return fail(e, err)
		}
		rotated = fresh
	}

	return respond(e, http.StatusOK, rotated, "User is logged in")
}
