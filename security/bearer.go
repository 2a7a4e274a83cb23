package security

import (
	"context"
	"errors"
	"strings"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"matchday/internal/auth"
	"matchday/internal/services"
	"matchday/internal/status"
	"matchday/monitoring"
)

// AccountIDKey is where the authenticated account id lands on the
// request event once a bearer middleware has accepted the token.
const AccountIDKey = "authAccountID"

// AccountID returns the authenticated account id stored by a bearer
// middleware, or "" when the route ran without one.
func AccountID(e *core.RequestEvent) string {
	id, _ := e.Get(AccountIDKey).(string)
	return id
}

// storedTokens is the slice of the account store the middleware needs.
type storedTokens interface {
	ControlToken(ctx context.Context, kind services.Kind, id, token string) error
}

// Bearer authenticates Authorization: Bearer tokens. Verification is
// stateless: a validly signed, unexpired token is accepted without a
// storage read. The token persisted on the account record is consulted
// only when verification fails, to tell an expired session apart from
// a forged or stale token.
type Bearer struct {
	tokens   *auth.TokenService
	accounts storedTokens
}

func NewBearer(tokens *auth.TokenService, accounts *services.AccountService) *Bearer {
	return &Bearer{tokens: tokens, accounts: accounts}
}

func (m *Bearer) RequireUser() func(e *core.RequestEvent) error {
	return m.require(services.KindUser)
}

func (m *Bearer) RequireAdmin() func(e *core.RequestEvent) error {
	return m.require(services.KindAdmin)
}

func (m *Bearer) require(kind services.Kind) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		token := bearerToken(e.Request.Header.Get("Authorization"))

		id, err := m.authenticate(e.Request.Context(), kind, token)
		switch {
		case err == nil:
			monitoring.TrackAuth(string(kind), "ok")
			e.Set(AccountIDKey, id)
			return e.Next()
		case errors.Is(err, status.ErrTokenInvalid):
			monitoring.TrackAuth(string(kind), "missing")
			return apis.NewUnauthorizedError("Authorization token is missing.", nil)
		case errors.Is(err, status.ErrTokenExpired):
			monitoring.TrackAuth(string(kind), "expired")
			return apis.NewForbiddenError("Token is expired, please login again.", map[string]any{
				"reason": status.ErrTokenExpired.Error(),
			})
		default:
			monitoring.TrackAuth(string(kind), "denied")
			return apis.NewForbiddenError("Permission denied.", nil)
		}
	}
}

// authenticate resolves the account behind a presented token. Any
// validly signed, unexpired token authenticates its subject as is.
// The stored-token comparison runs only on verification failure: if
// the account's last issued token is exactly the presented one, the
// session merely expired; anything else is denied.
func (m *Bearer) authenticate(ctx context.Context, kind services.Kind, token string) (string, error) {
	if token == "" {
		return "", status.ErrTokenInvalid
	}

	id, err := m.tokens.Verify(token)
	if err == nil {
		return id, nil
	}

	id, err = m.tokens.Subject(token)
	if err != nil {
		return "", status.ErrPermissionDenied
	}
	if err := m.accounts.ControlToken(ctx, kind, id, token); err != nil {
		return "", status.ErrPermissionDenied
	}
	return "", status.ErrTokenExpired
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if strings.Count(token, ".") != 2 {
		return ""
	}
	return token
}
