package redisx

import (
	"fmt"
	"time"
)

const (
	// Order detail cache: whs:order:{order_id} -> order JSON
	KeyOrderDetail = "whs:order:%s"

	// Cached order lists. Post-commit invalidation treats these as
	// prefixes so filter/pagination variants are dropped together.
	KeyBuyerOrders  = "whs:orders:buyer:%s"
	KeySellerOrders = "whs:orders:seller:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLListCache  = time.Minute
	TTLDedup      = 48 * time.Hour
)

// Realtime pub/sub channels the notifier fans order events out to.
func ChannelBuyer(buyerID string) string   { return fmt.Sprintf("whs:chan:buyer:%s", buyerID) }
func ChannelSeller(sellerID string) string { return fmt.Sprintf("whs:chan:seller:%s", sellerID) }
