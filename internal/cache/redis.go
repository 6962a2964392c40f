package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/travelbook/config"
	"github.com/Domenick1991/travelbook/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client     *redis.Client
	ticketsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ticketsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ticketsTTL: ticketsTTL,
	}
}

func (c *RedisCache) GetTickets(ctx context.Context) ([]domain.Ticket, error) {
	data, err := c.client.Get(ctx, ticketsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *RedisCache) SetTickets(ctx context.Context, tickets []domain.Ticket) error {
	payload, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, ticketsKey(), payload, c.ticketsTTL).Err()
}

// InvalidateTickets drops the listing after a ticket is created or removed.
func (c *RedisCache) InvalidateTickets(ctx context.Context) error {
	return c.client.Del(ctx, ticketsKey()).Err()
}

func ticketsKey() string {
	return "cache:tickets"
}
