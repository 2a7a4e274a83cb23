package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"matchday/internal/status"
	"matchday/models"
	"matchday/monitoring"
)

// TradeEvent describes a completed buy or sell for the realtime feed.
type TradeEvent struct {
	Operation  string          `json:"operation"` // "buy" or "sell"
	UserID     string          `json:"user_id"`
	TicketID   string          `json:"ticket_id"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
}

type accountStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	AdjustBudget(ctx context.Context, userID string, delta decimal.Decimal) error
}

type ticketLedger interface {
	Get(ctx context.Context, ticketID string) (*models.Ticket, error)
	Assign(ctx context.Context, ticketID, accountID string) error
	Release(ctx context.Context, ticketID, accountID string) error
}

type categoryStore interface {
	GetCategory(ctx context.Context, id string) (*models.Category, error)
}

type tradeNotifier interface {
	PublishTrade(ctx context.Context, event TradeEvent)
}

// TradeService coordinates buy/sell across the ledger and the budget.
// Ticket ownership is enforced by the ledger's conditional writes; the
// budget delta is a separate guarded statement. There is deliberately
// no cross-step transaction: if the budget write fails after the
// ticket write, the ticket keeps its new state. That inconsistency is
// surfaced in logs and metrics and pinned down by a test.
type TradeService struct {
	accounts accountStore
	ledger   ticketLedger
	catalog  categoryStore
	cache    *PriceCache
	notify   tradeNotifier
}

func NewTradeService(accounts accountStore, ledger ticketLedger, catalog categoryStore, cache *PriceCache, notify tradeNotifier) *TradeService {
	return &TradeService{
		accounts: accounts,
		ledger:   ledger,
		catalog:  catalog,
		cache:    cache,
		notify:   notify,
	}
}

// Buy assigns the ticket to the user and debits the category price.
func (s *TradeService) Buy(ctx context.Context, userID, ticketID string) error {
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		monitoring.TrackTrade("buy", "rejected")
		return err
	}

	categoryID, price, err := s.resolvePrice(ctx, ticketID)
	if err != nil {
		monitoring.TrackTrade("buy", "rejected")
		return err
	}

	if !user.HasBudget(price) {
		monitoring.TrackTrade("buy", "rejected")
		return status.ErrInsufficientBudget
	}

	if err := s.ledger.Assign(ctx, ticketID, userID); err != nil {
		monitoring.TrackTrade("buy", "rejected")
		return err
	}

	if err := s.accounts.AdjustBudget(ctx, userID, price.Neg()); err != nil {
		// The ticket is already assigned; surfacing the error leaves
		// the known assign-without-debit inconsistency observable.
		slog.Error("budget debit failed after ticket assignment",
			"user_id", userID,
			"ticket_id", ticketID,
			"price", price.String(),
			"error", err,
		)
		monitoring.TrackTrade("buy", "inconsistent")
		return err
	}

	monitoring.TrackTrade("buy", "success")
	s.publish(ctx, TradeEvent{
		Operation:  "buy",
		UserID:     userID,
		TicketID:   ticketID,
		CategoryID: categoryID,
		Price:      price,
	})
	return nil
}

// Sell releases the user's ticket and credits the category price back.
func (s *TradeService) Sell(ctx context.Context, userID, ticketID string) error {
	if _, err := s.accounts.GetUser(ctx, userID); err != nil {
		monitoring.TrackTrade("sell", "rejected")
		return err
	}

	categoryID, price, err := s.resolvePrice(ctx, ticketID)
	if err != nil {
		monitoring.TrackTrade("sell", "rejected")
		return err
	}

	if err := s.ledger.Release(ctx, ticketID, userID); err != nil {
		monitoring.TrackTrade("sell", "rejected")
		return err
	}

	if err := s.accounts.AdjustBudget(ctx, userID, price); err != nil {
		slog.Error("budget credit failed after ticket release",
			"user_id", userID,
			"ticket_id", ticketID,
			"price", price.String(),
			"error", err,
		)
		monitoring.TrackTrade("sell", "inconsistent")
		return err
	}

	monitoring.TrackTrade("sell", "success")
	s.publish(ctx, TradeEvent{
		Operation:  "sell",
		UserID:     userID,
		TicketID:   ticketID,
		CategoryID: categoryID,
		Price:      price,
	})
	return nil
}

// resolvePrice finds the category owning the ticket and its price,
// preferring the Redis reverse index over catalog reads. Cache errors
// degrade to catalog lookups; they never fail a trade.
func (s *TradeService) resolvePrice(ctx context.Context, ticketID string) (string, decimal.Decimal, error) {
	var categoryID string

	if s.cache != nil {
		cached, err := s.cache.TicketCategory(ctx, ticketID)
		if err != nil {
			slog.Warn("price cache read failed", "ticket_id", ticketID, "error", err)
		} else {
			categoryID = cached
		}
	}

	if categoryID == "" {
		ticket, err := s.ledger.Get(ctx, ticketID)
		if err != nil {
			return "", decimal.Zero, err
		}
		categoryID = ticket.CategoryID
		if s.cache != nil {
			if err := s.cache.SetTicketCategory(ctx, ticketID, categoryID); err != nil {
				slog.Warn("price cache write failed", "ticket_id", ticketID, "error", err)
			}
		}
	}

	if s.cache != nil {
		price, ok, err := s.cache.CategoryPrice(ctx, categoryID)
		if err != nil {
			slog.Warn("price cache read failed", "category_id", categoryID, "error", err)
		} else if ok {
			return categoryID, price, nil
		}
	}

	category, err := s.catalog.GetCategory(ctx, categoryID)
	if err != nil {
		return "", decimal.Zero, err
	}
	if s.cache != nil {
		if err := s.cache.SetCategoryPrice(ctx, categoryID, category.Price); err != nil {
			slog.Warn("price cache write failed", "category_id", categoryID, "error", err)
		}
	}
	return categoryID, category.Price, nil
}

func (s *TradeService) publish(ctx context.Context, event TradeEvent) {
	if s.notify != nil {
		s.notify.PublishTrade(ctx, event)
	}
}
