package models

import "github.com/shopspring/decimal"

type User struct {
	ID        string              `json:"id"`
	FirstName string              `json:"first_name"`
	LastName  string              `json:"last_name"`
	Email     string              `json:"email"`
	Budget    decimal.NullDecimal `json:"budget"`
	Token     string              `json:"-"`
}

type Admin struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Token     string `json:"-"`
}

// HasBudget reports whether the user can cover the given price. An
// unset budget covers nothing.
func (u *User) HasBudget(price decimal.Decimal) bool {
	return u.Budget.Valid && u.Budget.Decimal.GreaterThanOrEqual(price)
}
