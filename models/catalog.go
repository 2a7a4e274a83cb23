package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Team struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	LogoURL   string `json:"logo,omitempty"`
}

type Match struct {
	ID      string    `json:"id"`
	Teams   []Team    `json:"teams"`
	Date    time.Time `json:"date"`
	Stadium string    `json:"stadium"`
	// Populated on detail/listing responses.
	Categories []Category `json:"categories,omitempty"`
}

type Category struct {
	ID       string          `json:"id"`
	MatchID  string          `json:"match_id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Capacity int             `json:"capacity"`
	Tickets  []Ticket        `json:"tickets,omitempty"`
}

type Ticket struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Seat       string `json:"seat"`
	Owner      string `json:"owner,omitempty"`
}

// Owned reports whether the ticket currently has an owner.
func (t *Ticket) Owned() bool { return t.Owner != "" }
