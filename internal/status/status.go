package status

import "errors"

// Domain sentinels. Handlers map these onto HTTP statuses; everything
// not listed here is treated as an internal error.
var (
	ErrEmailTaken         = errors.New("account: email already registered")
	ErrAccountNotFound    = errors.New("account: account not found")
	ErrIncorrectPassword  = errors.New("account: incorrect password")
	ErrTokenMismatch      = errors.New("token: token mismatch")
	ErrTokenExpired       = errors.New("token: token expired, login again")
	ErrTokenInvalid       = errors.New("token: token invalid")
	ErrSigningKeyMissing  = errors.New("token: signing key unavailable")
	ErrPermissionDenied   = errors.New("auth: permission denied")
	ErrTeamExists         = errors.New("catalog: team already exists")
	ErrTeamNotFound       = errors.New("catalog: team not found")
	ErrMatchExists        = errors.New("catalog: match already exists")
	ErrMatchNotFound      = errors.New("catalog: match not found")
	ErrCategoryNotFound   = errors.New("catalog: category not found")
	ErrTicketNotFound     = errors.New("ledger: ticket not found")
	ErrAlreadyOwned       = errors.New("ledger: ticket already has an owner")
	ErrNotOwned           = errors.New("ledger: ticket does not have an owner")
	ErrOwnerMismatch      = errors.New("ledger: ticket owner does not match")
	ErrInsufficientBudget = errors.New("trade: not enough budget")
	ErrBudgetConflict     = errors.New("trade: budget changed concurrently")
	ErrStorageUnavailable = errors.New("storage: unavailable")
)
