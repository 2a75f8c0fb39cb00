package wholesale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator(s *fakeStore) *Validator { return &Validator{Products: s} }

func floatPtr(f float64) *float64 { return &f }

func TestValidate_OK(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-1", Quantity: 10}, // 10 * 2500 = 25000
		{ProductID: "prod-2", Quantity: 3},  // 3 * 1200 = 3600
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, int64(28600), res.TotalValueCents)
	assert.True(t, res.PaymentTermsValid)
	assert.Equal(t, "Net 30", res.PaymentTerms)
	require.NotNil(t, res.Deposit)
	assert.Equal(t, int64(8580), res.Deposit.DepositCents) // 30% of 28600
	assert.Equal(t, int64(20020), res.Deposit.BalanceCents)
	require.Len(t, res.Items, 2)
	assert.Equal(t, int64(25000), res.Items[0].SubtotalCents)
}

func TestValidate_MOQFailure(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-1", Quantity: 4}, // MOQ is 10
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.Len(t, res.ItemsFailingMOQ, 1)
	f := res.ItemsFailingMOQ[0]
	assert.Equal(t, "prod-1", f.ProductID)
	assert.Equal(t, "Oak Shelf", f.ProductName)
	assert.Equal(t, 10, f.Required)
	assert.Equal(t, 4, f.Provided)
	assert.NotEmpty(t, res.Errors)
}

func TestValidate_MOQDefaultsToOne(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	// prod-2 has no configured MOQ; quantity 1 passes.
	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-2", Quantity: 1},
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)
	assert.Empty(t, res.ItemsFailingMOQ)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Items[0].MOQ)
}

func TestValidate_PaymentTerms(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-2", Quantity: 1},
	}, "Net 90", s.settings[sellerID])
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.False(t, res.PaymentTermsValid)
	assert.Equal(t, []string{"Net 30", "Net 60", "Immediate"}, res.AllowedTerms)
}

func TestValidate_DefaultTermsWhenUnconfigured(t *testing.T) {
	s := newFakeStore()
	s.products["p"] = Product{ID: "p", SellerID: "bare-seller", Name: "Widget", PriceCents: 100}
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "p", Quantity: 1},
	}, "", SellerSettings{SellerID: "bare-seller"})
	require.NoError(t, err)

	assert.True(t, res.Valid)
	assert.Equal(t, DefaultPaymentTerms, res.PaymentTerms)
	assert.Equal(t, []string{DefaultPaymentTerms}, res.AllowedTerms)
	// No deposit configured: full amount is balance.
	require.NotNil(t, res.Deposit)
	assert.Zero(t, res.Deposit.DepositCents)
	assert.Equal(t, int64(100), res.Deposit.BalanceCents)
}

func TestValidate_MinimumOrderValue(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	cfg := s.settings[sellerID]
	cfg.MinimumOrderValueCents = 50000
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-1", Quantity: 10}, // 25000
	}, "Net 30", cfg)
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.Equal(t, int64(50000), res.MinimumOrderValueCents)
	assert.Equal(t, int64(25000), res.ShortfallCents)
}

func TestValidate_UnknownProduct(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "ghost", Quantity: 1},
		{ProductID: "prod-2", Quantity: 1},
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.Len(t, res.ItemErrors, 1)
	assert.Equal(t, ItemReasonNotFound, res.ItemErrors[0].Reason)
	// The resolvable item is still priced.
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1200), res.TotalValueCents)
}

func TestValidate_ForeignProduct(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	s.products["foreign"] = Product{ID: "foreign", SellerID: "someone-else", Name: "Rug", PriceCents: 900}
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "foreign", Quantity: 1},
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)

	assert.False(t, res.Valid)
	require.Len(t, res.ItemErrors, 1)
	assert.Equal(t, ItemReasonWrongSeller, res.ItemErrors[0].Reason)
}

func TestValidate_PriceOverride(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-2", Quantity: 2, UnitPrice: floatPtr(10.99)},
	}, "Net 30", s.settings[sellerID])
	require.NoError(t, err)

	assert.True(t, res.Valid)
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(1099), res.Items[0].UnitPriceCents)
	assert.Equal(t, int64(2198), res.TotalValueCents)
	assert.NotEmpty(t, res.Warnings) // override differs from catalog
}

// All rule failures surface at once; nothing short-circuits.
func TestValidate_Accumulates(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	cfg := s.settings[sellerID]
	cfg.MinimumOrderValueCents = 100000
	v := testValidator(s)

	res, err := v.Validate(context.Background(), []ItemInput{
		{ProductID: "prod-1", Quantity: 1}, // below MOQ
		{ProductID: "ghost", Quantity: 1},  // missing
	}, "Net 90", cfg) // disallowed terms, plus minimum shortfall
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.Len(t, res.ItemsFailingMOQ, 1)
	assert.Len(t, res.ItemErrors, 1)
	assert.False(t, res.PaymentTermsValid)
	assert.Positive(t, res.ShortfallCents)
	assert.GreaterOrEqual(t, len(res.Errors), 4)
}

func TestValidate_EmptyOrder(t *testing.T) {
	s := newFakeStore()
	sellerID, _ := seedCommerce(s)
	v := testValidator(s)

	res, err := v.Validate(context.Background(), nil, "Net 30", s.settings[sellerID])
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
}
