package wholesale

import (
	"strings"
	"time"
)

// OrderStatus of a wholesale order. This engine only ever writes
// StatusPending; later transitions belong to the payment/fulfillment
// service.
type OrderStatus string

const StatusPending OrderStatus = "pending"

// GrantStatus of a wholesale access grant.
type GrantStatus string

const (
	GrantActive  GrantStatus = "active"
	GrantRevoked GrantStatus = "revoked"
)

const DefaultCurrency = "USD"

// DefaultPaymentTerms is the single allowed term when a seller has not
// configured any.
const DefaultPaymentTerms = "Net 30"

type Product struct {
	ID         string
	SellerID   string
	Name       string
	SKU        string
	ImageURL   string
	PriceCents int64
	MOQ        int // 0 = not configured
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Buyer struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

func (b Buyer) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// AccessGrant permits one buyer to order wholesale from one seller.
// At most one active grant exists per (buyer, seller) pair. Grants are
// created by the invitation service; this engine only reads them.
type AccessGrant struct {
	ID            string
	BuyerID       string
	SellerID      string
	Status        GrantStatus
	PricingTierID string // optional
	GrantedAt     time.Time
	RevokedAt     *time.Time
}

// SellerSettings is the seller's wholesale program configuration.
type SellerSettings struct {
	SellerID               string
	DepositPercentage      int      // 0-100, 0 = no deposit
	AllowedPaymentTerms    []string // empty = [DefaultPaymentTerms]
	MinimumOrderValueCents int64    // 0 = no minimum
	Currency               string   // empty = DefaultCurrency
}

// Terms returns the allowed payment terms, falling back to the default.
func (s SellerSettings) Terms() []string {
	if len(s.AllowedPaymentTerms) == 0 {
		return []string{DefaultPaymentTerms}
	}
	return s.AllowedPaymentTerms
}

func (s SellerSettings) CurrencyCode() string {
	if s.Currency == "" {
		return DefaultCurrency
	}
	return s.Currency
}

type Order struct {
	ID                string
	OrderNumber       string
	SellerID          string
	BuyerID           string
	Status            OrderStatus
	SubtotalCents     int64
	DepositCents      int64
	BalanceCents      int64
	DepositPercentage int
	PaymentTerms      string
	PONumber          string
	Currency          string
	BuyerEmail        string
	BuyerName         string
	ShippingAddress   string
	BillingAddress    string
	CreatedAt         time.Time
}

// OrderItem is a snapshot of the product at order time; later catalog
// edits must not alter historical orders.
type OrderItem struct {
	ID             string
	OrderID        string
	ProductID      string
	ProductName    string
	SKU            string
	ImageURL       string
	Quantity       int
	MOQ            int
	UnitPriceCents int64
	SubtotalCents  int64
}

// OrderEvent is an append-only audit record.
type OrderEvent struct {
	ID          string
	OrderID     string
	EventType   string
	Description string
	PerformedBy string
	OccurredAt  time.Time
}

const EventTypeOrderCreated = "order_created"

type ItemInput struct {
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price,omitempty"` // decimal override; catalog price when nil
}

type PlaceOrderInput struct {
	SellerID        string      `json:"seller_id"`
	Items           []ItemInput `json:"items"`
	PaymentTerms    string      `json:"payment_terms,omitempty"`
	PONumber        string      `json:"po_number,omitempty"`
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address,omitempty"`
}
