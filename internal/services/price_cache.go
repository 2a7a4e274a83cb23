package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// PriceCache keeps the ticket→category reverse index and category
// prices in Redis so the buy/sell hot path avoids two catalog reads.
// The ticket→category edge never changes; prices are invalidated on
// category updates and expire on their own otherwise.
type PriceCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPriceCache(redisClient *redis.Client, ttl time.Duration) *PriceCache {
	return &PriceCache{redis: redisClient, ttl: ttl}
}

func ticketCategoryKey(ticketID string) string { return fmt.Sprintf("ticket:category:%s", ticketID) }
func categoryPriceKey(categoryID string) string { return fmt.Sprintf("category:price:%s", categoryID) }

// TicketCategory returns the cached owning category id, or "" on miss.
func (c *PriceCache) TicketCategory(ctx context.Context, ticketID string) (string, error) {
	value, err := c.redis.Get(ctx, ticketCategoryKey(ticketID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (c *PriceCache) SetTicketCategory(ctx context.Context, ticketID, categoryID string) error {
	return c.redis.Set(ctx, ticketCategoryKey(ticketID), categoryID, c.ttl).Err()
}

// CategoryPrice returns the cached price and whether it was present.
func (c *PriceCache) CategoryPrice(ctx context.Context, categoryID string) (decimal.Decimal, bool, error) {
	value, err := c.redis.Get(ctx, categoryPriceKey(categoryID)).Result()
	if err == redis.Nil {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	price, err := decimal.NewFromString(value)
	if err != nil {
		// Treat a corrupt entry as a miss; the catalog is authoritative.
		return decimal.Zero, false, nil
	}
	return price, true, nil
}

func (c *PriceCache) SetCategoryPrice(ctx context.Context, categoryID string, price decimal.Decimal) error {
	return c.redis.Set(ctx, categoryPriceKey(categoryID), price.String(), c.ttl).Err()
}

// InvalidatePrice drops the cached price after a category update.
func (c *PriceCache) InvalidatePrice(ctx context.Context, categoryID string) error {
	return c.redis.Del(ctx, categoryPriceKey(categoryID)).Err()
}
