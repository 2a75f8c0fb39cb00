package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/averlon/wholesale-orders/internal/kafka"
	"github.com/averlon/wholesale-orders/internal/redisx"
	"github.com/averlon/wholesale-orders/internal/wholesale"
)

// Service relays committed order events to the realtime channels buyers
// and sellers subscribe to, and drops their stale cached order lists.
// Everything here is idempotent; replaying an event is harmless.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// Notification is the message fanned out over pub/sub.
type Notification struct {
	OrderID       string    `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	SellerID      string    `json:"seller_id"`
	BuyerID       string    `json:"buyer_id"`
	SubtotalCents int64     `json:"subtotal_cents"`
	DepositCents  int64     `json:"deposit_cents"`
	BalanceCents  int64     `json:"balance_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// HandleOrderCreated is the consumer handler for the order-created
// topic.
func (s *Service) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env wholesale.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != wholesale.EventOrderCreated {
		return nil // ignore
	}

	// Dedup by event_id.
	dkey := fmt.Sprintf(redisx.KeyDedup, "notify", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[wholesale.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	b := kafkax.MustMarshal(Notification{
		OrderID:       p.OrderID,
		OrderNumber:   p.OrderNumber,
		SellerID:      p.SellerID,
		BuyerID:       p.BuyerID,
		SubtotalCents: p.SubtotalCents,
		DepositCents:  p.DepositCents,
		BalanceCents:  p.BalanceCents,
		Currency:      p.Currency,
		OccurredAt:    env.OccurredAt,
	})

	// Best-effort fan-out; subscribers that are offline simply miss it.
	if err := s.Redis.Publish(ctx, redisx.ChannelBuyer(p.BuyerID), b).Err(); err != nil {
		log.Printf("publish buyer channel: %v", err)
	}
	if err := s.Redis.Publish(ctx, redisx.ChannelSeller(p.SellerID), b).Err(); err != nil {
		log.Printf("publish seller channel: %v", err)
	}

	// Drop cached lists so the next read sees the new order.
	cache := &redisx.Cache{RDB: s.Redis}
	if err := cache.InvalidatePattern(ctx, fmt.Sprintf(redisx.KeyBuyerOrders, p.BuyerID)); err != nil {
		log.Printf("invalidate buyer list: %v", err)
	}
	if err := cache.InvalidatePattern(ctx, fmt.Sprintf(redisx.KeySellerOrders, p.SellerID)); err != nil {
		log.Printf("invalidate seller list: %v", err)
	}
	return nil
}
