package wholesale

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/averlon/wholesale-orders/internal/kafka"
	"github.com/averlon/wholesale-orders/internal/redisx"
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	ProductStore
	GrantStore
	GetBuyer(ctx context.Context, id string) (Buyer, error)
	GetSellerSettings(ctx context.Context, sellerID string) (SellerSettings, error)
	// CreateOrderTx writes the order header, its items, and the
	// creation event atomically. Returns ErrOrderNumberConflict when
	// the order number is already taken.
	CreateOrderTx(ctx context.Context, o *Order, items []OrderItem, ev OrderEvent) error
}

// Cache invalidation contract. Re-invalidating a key is harmless.
type Cache interface {
	Invalidate(ctx context.Context, key string) error
	InvalidatePattern(ctx context.Context, prefix string) error
}

// Publisher is the at-most-once event publisher (the async Kafka
// producer in production).
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service is the order placement orchestrator: gate, validate,
// calculate, write atomically, then fire post-commit effects.
type Service struct {
	Store    Store
	Cache    Cache
	Producer Publisher
	Name     string // producer name stamped on event envelopes

	gate      *Gate
	validator *Validator
}

func NewService(store Store, cache Cache, producer Publisher, name string) *Service {
	return &Service{
		Store:     store,
		Cache:     cache,
		Producer:  producer,
		Name:      name,
		gate:      &Gate{Grants: store},
		validator: &Validator{Products: store},
	}
}

// ValidateOrder runs the rule checks without writing anything. Used by
// clients for pre-submission feedback.
func (s *Service) ValidateOrder(ctx context.Context, sellerID string, items []ItemInput, paymentTerms string) (ValidationResult, error) {
	settings, err := s.Store.GetSellerSettings(ctx, sellerID)
	if err != nil {
		return ValidationResult{}, err
	}
	return s.validator.Validate(ctx, items, paymentTerms, settings)
}

// Order number collisions are regenerated a bounded number of times
// before giving up.
const orderNumberAttempts = 3

// PlaceOrder authorizes buyerID against the seller, validates the
// requested items, and persists the order, its item snapshots, and one
// order_created event in a single transaction. A validation failure
// creates nothing. Post-commit cache invalidation and event publishing
// are best-effort and never fail the committed order.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput, buyerID string) (*Order, []OrderItem, error) {
	if _, err := s.gate.CheckAccess(ctx, buyerID, in.SellerID); err != nil {
		return nil, nil, err
	}

	settings, err := s.Store.GetSellerSettings(ctx, in.SellerID)
	if err != nil {
		return nil, nil, err
	}

	res, err := s.validator.Validate(ctx, in.Items, in.PaymentTerms, settings)
	if err != nil {
		return nil, nil, err
	}
	if err := res.firstResolutionError(in.SellerID); err != nil {
		return nil, nil, err
	}
	if !res.Valid {
		return nil, nil, &ValidationError{Result: &res}
	}

	buyer, err := s.Store.GetBuyer(ctx, buyerID)
	if err != nil {
		return nil, nil, err
	}

	split := *res.Deposit
	now := time.Now().UTC()
	order := &Order{
		ID:                uuid.NewString(),
		SellerID:          in.SellerID,
		BuyerID:           buyerID,
		Status:            StatusPending,
		SubtotalCents:     split.OrderValueCents,
		DepositCents:      split.DepositCents,
		BalanceCents:      split.BalanceCents,
		DepositPercentage: split.DepositPercentage,
		PaymentTerms:      res.PaymentTerms,
		PONumber:          in.PONumber,
		Currency:          settings.CurrencyCode(),
		BuyerEmail:        buyer.Email,
		BuyerName:         buyer.FullName(),
		ShippingAddress:   in.ShippingAddress,
		BillingAddress:    in.BillingAddress,
		CreatedAt:         now,
	}

	items := make([]OrderItem, 0, len(res.Items))
	for _, ri := range res.Items {
		items = append(items, OrderItem{
			ID:             uuid.NewString(),
			OrderID:        order.ID,
			ProductID:      ri.Product.ID,
			ProductName:    ri.Product.Name,
			SKU:            ri.Product.SKU,
			ImageURL:       ri.Product.ImageURL,
			Quantity:       ri.Quantity,
			MOQ:            ri.MOQ,
			UnitPriceCents: ri.UnitPriceCents,
			SubtotalCents:  ri.SubtotalCents,
		})
	}

	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = NewOrderNumber()
		ev := OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			EventType:   EventTypeOrderCreated,
			Description: fmt.Sprintf("Order %s placed by %s", order.OrderNumber, buyer.Email),
			PerformedBy: buyerID,
			OccurredAt:  now,
		}
		err = s.Store.CreateOrderTx(ctx, order, items, ev)
		if !errors.Is(err, ErrOrderNumberConflict) {
			break
		}
	}
	if err != nil {
		return nil, nil, &PersistenceError{Err: err}
	}

	s.postCommit(ctx, order, items)
	return order, items, nil
}

// postCommit runs the effects outside the transaction boundary. Their
// failure is logged and swallowed: the order is already committed.
func (s *Service) postCommit(ctx context.Context, o *Order, items []OrderItem) {
	if s.Cache != nil {
		if err := s.Cache.InvalidatePattern(ctx, fmt.Sprintf(redisx.KeyBuyerOrders, o.BuyerID)); err != nil {
			log.Printf("cache invalidation (buyer %s): %v", o.BuyerID, err)
		}
		if err := s.Cache.InvalidatePattern(ctx, fmt.Sprintf(redisx.KeySellerOrders, o.SellerID)); err != nil {
			log.Printf("cache invalidation (seller %s): %v", o.SellerID, err)
		}
	}

	if s.Producer == nil {
		return
	}
	evItems := make([]EventItem, 0, len(items))
	for _, it := range items {
		evItems = append(evItems, EventItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitPriceCents: it.UnitPriceCents})
	}
	env := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Name,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderCreatedPayload{
			OrderID:       o.ID,
			OrderNumber:   o.OrderNumber,
			SellerID:      o.SellerID,
			BuyerID:       o.BuyerID,
			SubtotalCents: o.SubtotalCents,
			DepositCents:  o.DepositCents,
			BalanceCents:  o.BalanceCents,
			Currency:      o.Currency,
			Items:         evItems,
		}),
	}
	s.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
