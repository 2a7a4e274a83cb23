package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"matchday/internal/status"
	"matchday/models"
)

// Kind selects the account collection.
type Kind string

const (
	KindUser  Kind = "users"
	KindAdmin Kind = "admins"
)

// Credentials is the login-relevant slice of an account record.
type Credentials struct {
	ID           string
	PasswordHash string
	Token        string
}

type CreateAccountParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	// Users only; nil means unset.
	Budget *decimal.Decimal
}

// AccountService persists users and admins. Passwords are stored as
// bcrypt hashes, never plaintext; budgets are decimal strings mutated
// only through guarded single-statement updates.
type AccountService struct {
	app core.App
}

func NewAccountService(app core.App) *AccountService {
	return &AccountService{app: app}
}

func (s *AccountService) Create(ctx context.Context, kind Kind, params CreateAccountParams) (string, error) {
	if _, err := s.app.FindFirstRecordByFilter(string(kind), "email = {:email}", dbx.Params{"email": params.Email}); err == nil {
		return "", status.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	collection, err := s.app.FindCollectionByNameOrId(string(kind))
	if err != nil {
		return "", fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}

	record := core.NewRecord(collection)
	record.Set("first_name", params.FirstName)
	record.Set("last_name", params.LastName)
	record.Set("email", params.Email)
	record.Set("password_hash", string(hash))
	if kind == KindUser && params.Budget != nil {
		record.Set("budget", params.Budget.String())
	}

	if err := s.app.Save(record); err != nil {
		// The unique email index is the real enforcement point; the
		// pre-check above only produces the friendlier error early.
		slog.Error("account create failed", "kind", kind, "error", err)
		return "", conflictOrStorage(err, status.ErrEmailTaken)
	}

	return record.Id, nil
}

func (s *AccountService) GetUser(ctx context.Context, id string) (*models.User, error) {
	record, err := s.app.FindRecordById(string(KindUser), id)
	if err != nil {
		return nil, status.ErrAccountNotFound
	}
	return userFromRecord(record), nil
}

func (s *AccountService) GetAdmin(ctx context.Context, id string) (*models.Admin, error) {
	record, err := s.app.FindRecordById(string(KindAdmin), id)
	if err != nil {
		return nil, status.ErrAccountNotFound
	}
	return &models.Admin{
		ID:        record.Id,
		FirstName: record.GetString("first_name"),
		LastName:  record.GetString("last_name"),
		Email:     record.GetString("email"),
		Token:     record.GetString("token"),
	}, nil
}

// Credentials looks an account up by email for the login flow.
func (s *AccountService) Credentials(ctx context.Context, kind Kind, email string) (*Credentials, error) {
	record, err := s.app.FindFirstRecordByFilter(string(kind), "email = {:email}", dbx.Params{"email": email})
	if err != nil {
		return nil, status.ErrAccountNotFound
	}
	return &Credentials{
		ID:           record.Id,
		PasswordHash: record.GetString("password_hash"),
		Token:        record.GetString("token"),
	}, nil
}

func (s *AccountService) Remove(ctx context.Context, kind Kind, id string) error {
	record, err := s.app.FindRecordById(string(kind), id)
	if err != nil {
		return status.ErrAccountNotFound
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

// ControlToken compares the presented token against the stored one.
func (s *AccountService) ControlToken(ctx context.Context, kind Kind, id, token string) error {
	record, err := s.app.FindRecordById(string(kind), id)
	if err != nil {
		return status.ErrAccountNotFound
	}
	if record.GetString("token") != token {
		return status.ErrTokenMismatch
	}
	return nil
}

// SaveToken persists a freshly issued session token on the account so
// the stored-token fallback has something to compare against.
func (s *AccountService) SaveToken(ctx context.Context, kind Kind, id, token string) error {
	record, err := s.app.FindRecordById(string(kind), id)
	if err != nil {
		return status.ErrAccountNotFound
	}
	record.Set("token", token)
	if err := s.app.Save(record); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash.
func (s *AccountService) VerifyPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return status.ErrIncorrectPassword
	}
	return nil
}

// AdjustBudget applies a signed delta to a user's budget with a single
// conditional UPDATE guarded on the previously read value. A negative
// result is rejected before any write; a concurrent change surfaces as
// ErrBudgetConflict rather than a silent double-spend.
func (s *AccountService) AdjustBudget(ctx context.Context, userID string, delta decimal.Decimal) error {
	record, err := s.app.FindRecordById(string(KindUser), userID)
	if err != nil {
		return status.ErrAccountNotFound
	}

	old := record.GetString("budget")
	current := decimal.Zero
	if old != "" {
		current, err = decimal.NewFromString(old)
		if err != nil {
			return fmt.Errorf("corrupt budget %q for user %s: %w", old, userID, err)
		}
	}

	next := current.Add(delta)
	if next.IsNegative() {
		return status.ErrInsufficientBudget
	}

	result, err := s.app.DB().NewQuery(
		"UPDATE users SET budget = {:next} WHERE id = {:id} AND budget = {:old}",
	).Bind(dbx.Params{"next": next.String(), "id": userID, "old": old}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return status.ErrBudgetConflict
	}
	return nil
}

func userFromRecord(record *core.Record) *models.User {
	user := &models.User{
		ID:        record.Id,
		FirstName: record.GetString("first_name"),
		LastName:  record.GetString("last_name"),
		Email:     record.GetString("email"),
		Token:     record.GetString("token"),
	}
	if raw := record.GetString("budget"); raw != "" {
		if amount, err := decimal.NewFromString(raw); err == nil {
			user.Budget = decimal.NewNullDecimal(amount)
		}
	}
	return user
}

// conflictOrStorage maps a failed Save: record validation failures
// (unique index hits included, which the storage layer normalizes into
// validation errors) surface as the given conflict sentinel, anything
// else as a storage problem.
func conflictOrStorage(err error, conflict error) error {
	var validationErrs validation.Errors
	if errors.As(err, &validationErrs) {
		return conflict
	}
	return fmt.Errorf("%w: %v", status.ErrStorageUnavailable, err)
}

// IsNotFound reports whether the error is the distinct not-found case.
func IsNotFound(err error) bool {
	return errors.Is(err, status.ErrAccountNotFound) ||
		errors.Is(err, status.ErrTicketNotFound) ||
		errors.Is(err, status.ErrCategoryNotFound) ||
		errors.Is(err, status.ErrMatchNotFound) ||
		errors.Is(err, status.ErrTeamNotFound)
}
