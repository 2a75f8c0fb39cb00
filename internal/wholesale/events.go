package wholesale

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated = "wholesale.order.created"

	EventOrderCreated = "WholesaleOrderCreated"
)

// Envelope is the versioned wrapper every published event uses.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type EventItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type OrderCreatedPayload struct {
	OrderID       string      `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	SellerID      string      `json:"seller_id"`
	BuyerID       string      `json:"buyer_id"`
	SubtotalCents int64       `json:"subtotal_cents"`
	DepositCents  int64       `json:"deposit_cents"`
	BalanceCents  int64       `json:"balance_cents"`
	Currency      string      `json:"currency"`
	Items         []EventItem `json:"items"`
}

// Partition key = order_id so all events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
