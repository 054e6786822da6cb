package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdesk-app/helpdesk/internal/domain"
)

const defaultTTL = 5 * time.Minute

// TicketViewCache keeps per-user ticket listings and per-ticket detail views
// in Redis. Mutating operations invalidate the affected keys; reads fall
// through to the store on any miss or cache fault.
type TicketViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketViewCache builds the cache around an existing client.
func NewTicketViewCache(client *redis.Client, logger *zap.Logger) *TicketViewCache {
	return &TicketViewCache{client: client, ttl: defaultTTL, logger: logger}
}

func listKey(userID int64) string {
	return fmt.Sprintf("tickets:user:%d", userID)
}

func detailKey(ticketID int64) string {
	return fmt.Sprintf("ticket:%d", ticketID)
}

// GetList returns the cached listing for a user, if warm.
func (c *TicketViewCache) GetList(ctx context.Context, userID int64) ([]domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, listKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("ticket list cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, false
	}
	return tickets, true
}

// SetList stores a user's listing.
func (c *TicketViewCache) SetList(ctx context.Context, userID int64, tickets []domain.Ticket) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKey(userID), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket list cache write failed", zap.Error(err))
	}
}

// InvalidateList drops a user's cached listing.
func (c *TicketViewCache) InvalidateList(ctx context.Context, userID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, listKey(userID)).Err(); err != nil {
		c.logger.Debug("ticket list cache invalidation failed", zap.Error(err))
	}
}

// GetTicket returns a cached ticket detail view, if warm.
func (c *TicketViewCache) GetTicket(ctx context.Context, ticketID int64) (*domain.Ticket, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, detailKey(ticketID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("ticket detail cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var ticket domain.Ticket
	if err := json.Unmarshal(raw, &ticket); err != nil {
		return nil, false
	}
	return &ticket, true
}

// SetTicket stores a ticket detail view.
func (c *TicketViewCache) SetTicket(ctx context.Context, ticket *domain.Ticket) {
	if c == nil || c.client == nil || ticket == nil {
		return
	}
	raw, err := json.Marshal(ticket)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, detailKey(ticket.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("ticket detail cache write failed", zap.Error(err))
	}
}

// InvalidateTicket drops a cached ticket detail view.
func (c *TicketViewCache) InvalidateTicket(ctx context.Context, ticketID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, detailKey(ticketID)).Err(); err != nil {
		c.logger.Debug("ticket detail cache invalidation failed", zap.Error(err))
	}
}
