package wholesale

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
)

// fakeStore is an in-memory Store. CreateOrderTx is trivially atomic:
// either the whole group is appended or nothing is.
type fakeStore struct {
	products map[string]Product
	buyers   map[string]Buyer
	grants   map[string]*AccessGrant
	settings map[string]SellerSettings

	placed     []placedOrder
	failCreate error
	conflicts  int // times CreateOrderTx reports an order-number conflict first
}

type placedOrder struct {
	order Order
	items []OrderItem
	event OrderEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products: map[string]Product{},
		buyers:   map[string]Buyer{},
		grants:   map[string]*AccessGrant{},
		settings: map[string]SellerSettings{},
	}
}

func grantKey(buyerID, sellerID string) string { return buyerID + "|" + sellerID }

func (s *fakeStore) GetProduct(ctx context.Context, id string) (Product, error) {
	p, ok := s.products[id]
	if !ok {
		return Product{}, &NotFoundError{Resource: "product", ID: id}
	}
	return p, nil
}

func (s *fakeStore) GetBuyer(ctx context.Context, id string) (Buyer, error) {
	b, ok := s.buyers[id]
	if !ok {
		return Buyer{}, &NotFoundError{Resource: "buyer", ID: id}
	}
	return b, nil
}

func (s *fakeStore) FindActiveGrant(ctx context.Context, buyerID, sellerID string) (*AccessGrant, error) {
	g, ok := s.grants[grantKey(buyerID, sellerID)]
	if !ok || g.Status != GrantActive {
		return nil, nil
	}
	return g, nil
}

func (s *fakeStore) GetSellerSettings(ctx context.Context, sellerID string) (SellerSettings, error) {
	if cfg, ok := s.settings[sellerID]; ok {
		return cfg, nil
	}
	return SellerSettings{SellerID: sellerID}, nil
}

func (s *fakeStore) CreateOrderTx(ctx context.Context, o *Order, items []OrderItem, ev OrderEvent) error {
	if s.conflicts > 0 {
		s.conflicts--
		return ErrOrderNumberConflict
	}
	if s.failCreate != nil {
		return s.failCreate
	}
	s.placed = append(s.placed, placedOrder{order: *o, items: items, event: ev})
	return nil
}

type recordingCache struct {
	invalidated []string
	err         error
}

func (c *recordingCache) Invalidate(ctx context.Context, key string) error {
	c.invalidated = append(c.invalidated, key)
	return c.err
}

func (c *recordingCache) InvalidatePattern(ctx context.Context, prefix string) error {
	c.invalidated = append(c.invalidated, prefix)
	return c.err
}

type recordingPublisher struct {
	keys   [][]byte
	values [][]byte
}

func (p *recordingPublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
}

// seedCommerce seeds a seller accepting Net 30/Net 60/Immediate with a
// 30% deposit, two products (one with an MOQ of 10), a buyer, and an
// active grant.
func seedCommerce(s *fakeStore) (sellerID, buyerID string) {
	sellerID, buyerID = "seller-1", "buyer-1"
	s.settings[sellerID] = SellerSettings{
		SellerID:            sellerID,
		DepositPercentage:   30,
		AllowedPaymentTerms: []string{"Net 30", "Net 60", "Immediate"},
	}
	s.products["prod-1"] = Product{ID: "prod-1", SellerID: sellerID, Name: "Oak Shelf", SKU: "OAK-1", PriceCents: 2500, MOQ: 10}
	s.products["prod-2"] = Product{ID: "prod-2", SellerID: sellerID, Name: "Pine Stool", SKU: "PIN-2", PriceCents: 1200}
	s.buyers[buyerID] = Buyer{ID: buyerID, Email: "buyer@example.com", FirstName: "Ada", LastName: "Nilsen"}
	s.grants[grantKey(buyerID, sellerID)] = &AccessGrant{
		ID: "grant-1", BuyerID: buyerID, SellerID: sellerID, Status: GrantActive,
	}
	return sellerID, buyerID
}
