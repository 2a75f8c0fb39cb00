package wholesale

import (
	"context"
	"errors"
	"fmt"
)

// ProductStore resolves catalog products. Implementations return
// *NotFoundError when the product does not exist.
type ProductStore interface {
	GetProduct(ctx context.Context, id string) (Product, error)
}

type MOQFailure struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Required    int    `json:"required"`
	Provided    int    `json:"provided"`
}

// Item resolution failure reasons.
const (
	ItemReasonNotFound    = "not_found"
	ItemReasonWrongSeller = "wrong_seller"
)

type ItemError struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// ResolvedItem is the priced product snapshot an order item is built
// from.
type ResolvedItem struct {
	Product        Product
	Quantity       int
	MOQ            int
	UnitPriceCents int64
	SubtotalCents  int64
}

// ValidationResult is the complete outcome of all order rule checks.
// Checks never short-circuit, so a caller always sees every failure at
// once.
type ValidationResult struct {
	Valid                  bool          `json:"valid"`
	Errors                 []string      `json:"errors,omitempty"`
	Warnings               []string      `json:"warnings,omitempty"`
	ItemErrors             []ItemError   `json:"item_errors,omitempty"`
	ItemsFailingMOQ        []MOQFailure  `json:"items_failing_moq,omitempty"`
	PaymentTermsValid      bool          `json:"payment_terms_valid"`
	PaymentTerms           string        `json:"payment_terms"`
	AllowedTerms           []string      `json:"allowed_terms"`
	MinimumOrderValueCents int64         `json:"minimum_order_value_cents,omitempty"`
	ShortfallCents         int64         `json:"shortfall_cents,omitempty"`
	TotalValueCents        int64         `json:"total_value_cents"`
	Deposit                *DepositSplit `json:"deposit,omitempty"`

	// Items carries the resolved snapshots for the orchestrator; not
	// part of the wire representation.
	Items []ResolvedItem `json:"-"`
}

// firstResolutionError maps the first item resolution failure back to
// its typed error, for callers that need the taxonomy rather than the
// accumulated result.
func (r *ValidationResult) firstResolutionError(sellerID string) error {
	if len(r.ItemErrors) == 0 {
		return nil
	}
	ie := r.ItemErrors[0]
	if ie.Reason == ItemReasonWrongSeller {
		return &OwnershipError{ProductID: ie.ProductID, SellerID: sellerID}
	}
	return &NotFoundError{Resource: "product", ID: ie.ProductID}
}

// Validator composes the order business rule checks. It is read-only
// and safe to call standalone as a pre-submission dry run.
type Validator struct {
	Products ProductStore
}

// Validate resolves and prices the requested items, then evaluates MOQ,
// payment terms, minimum order value, and the deposit split against the
// seller's settings. All checks run; failures accumulate into the
// result. The returned error is non-nil only for infrastructure
// failures (e.g. the catalog being unreachable), never for rule
// violations.
func (v *Validator) Validate(ctx context.Context, items []ItemInput, paymentTerms string, settings SellerSettings) (ValidationResult, error) {
	res := ValidationResult{AllowedTerms: settings.Terms()}

	if len(items) == 0 {
		res.Errors = append(res.Errors, "order must contain at least one item")
	}

	// Item resolution + MOQ. Missing or foreign products are recorded
	// and skipped; remaining items are still checked.
	for _, in := range items {
		p, err := v.Products.GetProduct(ctx, in.ProductID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				res.ItemErrors = append(res.ItemErrors, ItemError{ProductID: in.ProductID, Reason: ItemReasonNotFound})
				res.Errors = append(res.Errors, fmt.Sprintf("product %s not found", in.ProductID))
				continue
			}
			return res, err
		}
		if p.SellerID != settings.SellerID {
			res.ItemErrors = append(res.ItemErrors, ItemError{ProductID: in.ProductID, Reason: ItemReasonWrongSeller})
			res.Errors = append(res.Errors, fmt.Sprintf("product %s does not belong to this seller", in.ProductID))
			continue
		}

		price := p.PriceCents
		if in.UnitPrice != nil {
			price = DecimalToCents(*in.UnitPrice)
			if price != p.PriceCents {
				res.Warnings = append(res.Warnings, fmt.Sprintf("unit price override for %s differs from catalog price", p.Name))
			}
		}

		required := 1
		if p.MOQ > 0 {
			required = p.MOQ
		}
		if in.Quantity < required {
			res.ItemsFailingMOQ = append(res.ItemsFailingMOQ, MOQFailure{
				ProductID:   p.ID,
				ProductName: p.Name,
				Required:    required,
				Provided:    in.Quantity,
			})
			res.Errors = append(res.Errors, fmt.Sprintf("%s: quantity %d below minimum of %d", p.Name, in.Quantity, required))
		}

		res.Items = append(res.Items, ResolvedItem{
			Product:        p,
			Quantity:       in.Quantity,
			MOQ:            required,
			UnitPriceCents: price,
			SubtotalCents:  price * int64(in.Quantity),
		})
		res.TotalValueCents += price * int64(in.Quantity)
	}

	// Payment terms. An omitted term falls back to the seller's first
	// allowed term.
	res.PaymentTerms = paymentTerms
	if res.PaymentTerms == "" {
		res.PaymentTerms = res.AllowedTerms[0]
	}
	for _, t := range res.AllowedTerms {
		if t == res.PaymentTerms {
			res.PaymentTermsValid = true
			break
		}
	}
	if !res.PaymentTermsValid {
		res.Errors = append(res.Errors, fmt.Sprintf("payment terms %q not accepted by this seller", res.PaymentTerms))
	}

	// Minimum order value.
	if settings.MinimumOrderValueCents > 0 {
		res.MinimumOrderValueCents = settings.MinimumOrderValueCents
		if res.TotalValueCents < settings.MinimumOrderValueCents {
			res.ShortfallCents = settings.MinimumOrderValueCents - res.TotalValueCents
			res.Errors = append(res.Errors, fmt.Sprintf(
				"order total %d below the seller minimum of %d (short by %d)",
				res.TotalValueCents, settings.MinimumOrderValueCents, res.ShortfallCents))
		}
	}

	// Deposit split over the running subtotal.
	split, err := CalculateDeposit(res.TotalValueCents, settings.DepositPercentage)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	} else {
		res.Deposit = &split
	}

	res.Valid = len(res.ItemErrors) == 0 &&
		len(res.ItemsFailingMOQ) == 0 &&
		res.PaymentTermsValid &&
		res.ShortfallCents == 0 &&
		res.Deposit != nil &&
		len(items) > 0
	return res, nil
}
