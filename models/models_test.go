package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUser_HasBudget(t *testing.T) {
	price := decimal.RequireFromString("50")

	tests := []struct {
		name     string
		budget   decimal.NullDecimal
		expected bool
	}{
		{"Unset budget", decimal.NullDecimal{}, false},
		{"Exact budget", decimal.NewNullDecimal(decimal.RequireFromString("50")), true},
		{"More than enough", decimal.NewNullDecimal(decimal.RequireFromString("50.01")), true},
		{"Just short", decimal.NewNullDecimal(decimal.RequireFromString("49.99")), false},
		{"Zero budget", decimal.NewNullDecimal(decimal.Zero), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Budget: tt.budget}
			assert.Equal(t, tt.expected, user.HasBudget(price))
		})
	}
}

func TestTicket_Owned(t *testing.T) {
	assert.False(t, (&Ticket{}).Owned())
	assert.True(t, (&Ticket{Owner: "user1"}).Owned())
}

func TestNewRespond(t *testing.T) {
	ok := NewRespond(200, "payload", "done")
	assert.True(t, ok.Success)
	assert.Equal(t, 200, ok.Status)
	assert.Equal(t, "payload", ok.Data)
	assert.Equal(t, "done", ok.Message)

	created := NewRespond(201, nil, "created")
	assert.True(t, created.Success)
	assert.Nil(t, created.Data, "nil data stays nil so it serializes as null")

	failed := NewRespond(404, nil, "missing")
	assert.False(t, failed.Success)
}
