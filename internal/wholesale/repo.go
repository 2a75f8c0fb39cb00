package wholesale

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo is the pgx-backed implementation of Store plus the read paths
// the HTTP layer serves.
type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, seller_id, name, sku, image_url, price_cents, moq, created_at, updated_at
		FROM products WHERE id=$1`, id,
	).Scan(&p.ID, &p.SellerID, &p.Name, &p.SKU, &p.ImageURL, &p.PriceCents, &p.MOQ, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, &NotFoundError{Resource: "product", ID: id}
	}
	return p, err
}

func (r *Repo) GetBuyer(ctx context.Context, id string) (Buyer, error) {
	var b Buyer
	err := r.DB.QueryRow(ctx, `
		SELECT id, email, COALESCE(first_name,''), COALESCE(last_name,'')
		FROM buyers WHERE id=$1`, id,
	).Scan(&b.ID, &b.Email, &b.FirstName, &b.LastName)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, &NotFoundError{Resource: "buyer", ID: id}
	}
	return b, err
}

func (r *Repo) FindActiveGrant(ctx context.Context, buyerID, sellerID string) (*AccessGrant, error) {
	var g AccessGrant
	err := r.DB.QueryRow(ctx, `
		SELECT id, buyer_id, seller_id, status, COALESCE(pricing_tier_id,''), granted_at, revoked_at
		FROM wholesale_access_grants
		WHERE buyer_id=$1 AND seller_id=$2 AND status='active'`, buyerID, sellerID,
	).Scan(&g.ID, &g.BuyerID, &g.SellerID, &g.Status, &g.PricingTierID, &g.GrantedAt, &g.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// GetSellerSettings returns the seller's wholesale configuration, or
// zero-value defaults (no deposit, "Net 30", no minimum) when the
// seller has not configured any.
func (r *Repo) GetSellerSettings(ctx context.Context, sellerID string) (SellerSettings, error) {
	s := SellerSettings{SellerID: sellerID}
	err := r.DB.QueryRow(ctx, `
		SELECT deposit_percentage, allowed_payment_terms, minimum_order_value_cents, currency
		FROM seller_settings WHERE seller_id=$1`, sellerID,
	).Scan(&s.DepositPercentage, &s.AllowedPaymentTerms, &s.MinimumOrderValueCents, &s.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return SellerSettings{SellerID: sellerID}, nil
	}
	return s, err
}

// CreateOrderTx inserts the order header, one row per item, and exactly
// one order_created event inside a single transaction. Any failure
// rolls the whole group back; a header without items can never exist.
func (r *Repo) CreateOrderTx(ctx context.Context, o *Order, items []OrderItem, ev OrderEvent) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO wholesale_orders(
			id, order_number, seller_id, buyer_id, status,
			subtotal_cents, deposit_cents, balance_cents, deposit_percentage,
			payment_terms, po_number, currency, buyer_email, buyer_name,
			shipping_address, billing_address, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		o.ID, o.OrderNumber, o.SellerID, o.BuyerID, o.Status,
		o.SubtotalCents, o.DepositCents, o.BalanceCents, o.DepositPercentage,
		o.PaymentTerms, o.PONumber, o.Currency, o.BuyerEmail, o.BuyerName,
		o.ShippingAddress, o.BillingAddress, o.CreatedAt,
	)
	if isUniqueViolation(err, "wholesale_orders_order_number_key") {
		return ErrOrderNumberConflict
	}
	if err != nil {
		return err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO wholesale_order_items(
				id, order_id, product_id, product_name, sku, image_url,
				quantity, moq, unit_price_cents, subtotal_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			it.ID, it.OrderID, it.ProductID, it.ProductName, it.SKU, it.ImageURL,
			it.Quantity, it.MOQ, it.UnitPriceCents, it.SubtotalCents,
		); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO wholesale_order_events(id, order_id, event_type, description, performed_by, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		ev.ID, ev.OrderID, ev.EventType, ev.Description, ev.PerformedBy, ev.OccurredAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetOrder(ctx context.Context, id string) (Order, []OrderItem, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_number, seller_id, buyer_id, status,
		       subtotal_cents, deposit_cents, balance_cents, deposit_percentage,
		       payment_terms, COALESCE(po_number,''), currency, buyer_email, buyer_name,
		       COALESCE(shipping_address,''), COALESCE(billing_address,''), created_at
		FROM wholesale_orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.OrderNumber, &o.SellerID, &o.BuyerID, &o.Status,
		&o.SubtotalCents, &o.DepositCents, &o.BalanceCents, &o.DepositPercentage,
		&o.PaymentTerms, &o.PONumber, &o.Currency, &o.BuyerEmail, &o.BuyerName,
		&o.ShippingAddress, &o.BillingAddress, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, nil, &NotFoundError{Resource: "order", ID: id}
	}
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, product_name, sku, image_url,
		       quantity, moq, unit_price_cents, subtotal_cents
		FROM wholesale_order_items WHERE order_id=$1`, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.SKU, &it.ImageURL,
			&it.Quantity, &it.MOQ, &it.UnitPriceCents, &it.SubtotalCents); err != nil {
			return Order{}, nil, err
		}
		items = append(items, it)
	}
	return o, items, rows.Err()
}

const orderColumns = `
	SELECT id, order_number, seller_id, buyer_id, status,
	       subtotal_cents, deposit_cents, balance_cents, deposit_percentage,
	       payment_terms, COALESCE(po_number,''), currency, buyer_email, buyer_name,
	       COALESCE(shipping_address,''), COALESCE(billing_address,''), created_at
	FROM wholesale_orders`

func (r *Repo) ListOrdersByBuyer(ctx context.Context, buyerID string) ([]Order, error) {
	return r.listOrders(ctx, orderColumns+` WHERE buyer_id=$1 ORDER BY created_at DESC`, buyerID)
}

func (r *Repo) ListOrdersBySeller(ctx context.Context, sellerID string) ([]Order, error) {
	return r.listOrders(ctx, orderColumns+` WHERE seller_id=$1 ORDER BY created_at DESC`, sellerID)
}

func (r *Repo) listOrders(ctx context.Context, query, arg string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.SellerID, &o.BuyerID, &o.Status,
			&o.SubtotalCents, &o.DepositCents, &o.BalanceCents, &o.DepositPercentage,
			&o.PaymentTerms, &o.PONumber, &o.Currency, &o.BuyerEmail, &o.BuyerName,
			&o.ShippingAddress, &o.BillingAddress, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListOrderEvents returns the append-only audit log, oldest first.
func (r *Repo) ListOrderEvents(ctx context.Context, orderID string) ([]OrderEvent, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, event_type, description, performed_by, occurred_at
		FROM wholesale_order_events WHERE order_id=$1 ORDER BY occurred_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderEvent
	for rows.Next() {
		var ev OrderEvent
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.EventType, &ev.Description, &ev.PerformedBy, &ev.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}
