package services

import (
	"context"
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"

	"matchday/utils"
)

// NotifyService pushes trade events to the buyer's realtime channel.
// Delivery is best effort behind a circuit breaker; a down notifier
// must never fail or slow a trade.
type NotifyService struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewNotifyService(pn *pubnub.PubNub) *NotifyService {
	return &NotifyService{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("pubnub"),
	}
}

func (s *NotifyService) PublishTrade(ctx context.Context, event TradeEvent) {
	if s.pubnub == nil {
		return
	}

	channel := fmt.Sprintf("user-%s", event.UserID)

	err := s.breaker.Execute(ctx, func() error {
		_, _, err := s.pubnub.Publish().
			Channel(channel).
			Message(map[string]any{
				"type":        "trade",
				"operation":   event.Operation,
				"ticket_id":   event.TicketID,
				"category_id": event.CategoryID,
				"price":       event.Price.String(),
			}).
			Execute()
		return err
	})
	if err != nil {
		slog.Warn("trade notification dropped", "channel", channel, "error", err)
	}
}
