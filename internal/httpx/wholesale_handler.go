package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/averlon/wholesale-orders/internal/redisx"
	"github.com/averlon/wholesale-orders/internal/wholesale"
)

type WholesaleHandler struct {
	Svc   *wholesale.Service
	Repo  *wholesale.Repo
	Redis *redis.Client
}

func (h *WholesaleHandler) Register(r *chi.Mux) {
	r.Post("/wholesale/orders", h.placeOrder)
	r.Post("/wholesale/orders/validate", h.validateOrder)
	r.Post("/wholesale/deposit", h.calculateDeposit)
	r.Get("/wholesale/orders/{id}", h.getOrder)
	r.Get("/wholesale/orders", h.listOrders)
}

type PlaceOrderReq struct {
	BuyerID         string                `json:"buyer_id"`
	SellerID        string                `json:"seller_id"`
	Items           []wholesale.ItemInput `json:"items"`
	PaymentTerms    string                `json:"payment_terms,omitempty"`
	PONumber        string                `json:"po_number,omitempty"`
	ShippingAddress string                `json:"shipping_address"`
	BillingAddress  string                `json:"billing_address,omitempty"`
}

type OrderItemResp struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	SKU            string `json:"sku,omitempty"`
	ImageURL       string `json:"image_url,omitempty"`
	Quantity       int    `json:"quantity"`
	MOQ            int    `json:"moq"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

type OrderResp struct {
	OrderID           string          `json:"order_id"`
	OrderNumber       string          `json:"order_number"`
	SellerID          string          `json:"seller_id"`
	BuyerID           string          `json:"buyer_id"`
	Status            string          `json:"status"`
	SubtotalCents     int64           `json:"subtotal_cents"`
	DepositCents      int64           `json:"deposit_cents"`
	BalanceCents      int64           `json:"balance_cents"`
	DepositPercentage int             `json:"deposit_percentage"`
	PaymentTerms      string          `json:"payment_terms"`
	PONumber          string          `json:"po_number,omitempty"`
	Currency          string          `json:"currency"`
	BuyerEmail        string          `json:"buyer_email"`
	BuyerName         string          `json:"buyer_name,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	Items             []OrderItemResp `json:"items,omitempty"`
}

func toOrderResp(o wholesale.Order, items []wholesale.OrderItem) OrderResp {
	resp := OrderResp{
		OrderID:           o.ID,
		OrderNumber:       o.OrderNumber,
		SellerID:          o.SellerID,
		BuyerID:           o.BuyerID,
		Status:            string(o.Status),
		SubtotalCents:     o.SubtotalCents,
		DepositCents:      o.DepositCents,
		BalanceCents:      o.BalanceCents,
		DepositPercentage: o.DepositPercentage,
		PaymentTerms:      o.PaymentTerms,
		PONumber:          o.PONumber,
		Currency:          o.Currency,
		BuyerEmail:        o.BuyerEmail,
		BuyerName:         o.BuyerName,
		CreatedAt:         o.CreatedAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, OrderItemResp{
			ProductID:      it.ProductID,
			ProductName:    it.ProductName,
			SKU:            it.SKU,
			ImageURL:       it.ImageURL,
			Quantity:       it.Quantity,
			MOQ:            it.MOQ,
			UnitPriceCents: it.UnitPriceCents,
			SubtotalCents:  it.SubtotalCents,
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy to HTTP. Persistence
// failures stay opaque: no order id, no SQL detail.
func writeError(w http.ResponseWriter, err error) {
	var (
		authErr  *wholesale.AuthorizationError
		nfErr    *wholesale.NotFoundError
		ownErr   *wholesale.OwnershipError
		valErr   *wholesale.ValidationError
		termsErr *wholesale.UnknownTermsError
		persErr  *wholesale.PersistenceError
	)
	switch {
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": authErr.Error()})
	case errors.As(err, &ownErr):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": ownErr.Error()})
	case errors.As(err, &nfErr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": nfErr.Error()})
	case errors.As(err, &valErr):
		body := map[string]any{"error": valErr.Error()}
		if valErr.Result != nil {
			body["validation"] = valErr.Result
		}
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case errors.As(err, &termsErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": termsErr.Error()})
	case errors.As(err, &persErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": persErr.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *WholesaleHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.BuyerID == "" || req.SellerID == "" || len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, items, err := h.Svc.PlaceOrder(ctx, wholesale.PlaceOrderInput{
		SellerID:        req.SellerID,
		Items:           req.Items,
		PaymentTerms:    req.PaymentTerms,
		PONumber:        req.PONumber,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}, req.BuyerID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toOrderResp(*order, items)

	// Warm the detail cache so the follow-up GET is a hit.
	key := fmt.Sprintf(redisx.KeyOrderDetail, order.ID)
	_ = h.Redis.Set(ctx, key, mustJSON(resp), redisx.TTLOrderCache).Err()

	writeJSON(w, http.StatusCreated, resp)
}

type ValidateOrderReq struct {
	SellerID     string                `json:"seller_id"`
	Items        []wholesale.ItemInput `json:"items"`
	PaymentTerms string                `json:"payment_terms,omitempty"`
}

func (h *WholesaleHandler) validateOrder(w http.ResponseWriter, r *http.Request) {
	var req ValidateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.SellerID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing seller_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.Svc.ValidateOrder(ctx, req.SellerID, req.Items, req.PaymentTerms)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type DepositReq struct {
	OrderValueCents   int64 `json:"order_value_cents"`
	DepositPercentage int   `json:"deposit_percentage"`
}

func (h *WholesaleHandler) calculateDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	split, err := wholesale.CalculateDeposit(req.OrderValueCents, req.DepositPercentage)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, split)
}

func (h *WholesaleHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// Cache first.
	key := fmt.Sprintf(redisx.KeyOrderDetail, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	order, items, err := h.Repo.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := toOrderResp(order, items)
	_ = h.Redis.Set(ctx, key, mustJSON(resp), redisx.TTLOrderCache).Err()
	writeJSON(w, http.StatusOK, resp)
}

func (h *WholesaleHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	buyerID := r.URL.Query().Get("buyer_id")
	sellerID := r.URL.Query().Get("seller_id")
	if (buyerID == "") == (sellerID == "") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "pass exactly one of buyer_id or seller_id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var key string
	if buyerID != "" {
		key = fmt.Sprintf(redisx.KeyBuyerOrders, buyerID)
	} else {
		key = fmt.Sprintf(redisx.KeySellerOrders, sellerID)
	}
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	var (
		orders []wholesale.Order
		err    error
	)
	if buyerID != "" {
		orders, err = h.Repo.ListOrdersByBuyer(ctx, buyerID)
	} else {
		orders, err = h.Repo.ListOrdersBySeller(ctx, sellerID)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]OrderResp, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResp(o, nil))
	}
	_ = h.Redis.Set(ctx, key, mustJSON(resp), redisx.TTLListCache).Err()
	writeJSON(w, http.StatusOK, resp)
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
