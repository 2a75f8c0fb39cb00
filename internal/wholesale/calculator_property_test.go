package wholesale

import (
	"testing"

	"pgregory.net/rapid"
)

// The deposit and balance must always reassemble the order value
// exactly, with no drift from rounding.
func TestCalculateDeposit_SplitIsExact(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Int64Range(0, 1_000_000_000_000).Draw(t, "value")
		pct := rapid.IntRange(0, 100).Draw(t, "pct")

		split, err := CalculateDeposit(value, pct)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if split.DepositCents+split.BalanceCents != value {
			t.Fatalf("split %d + %d != %d", split.DepositCents, split.BalanceCents, value)
		}
		if split.DepositCents < 0 || split.DepositCents > value {
			t.Fatalf("deposit %d outside [0, %d]", split.DepositCents, value)
		}
	})
}

// Rounding is half-up: the deposit differs from the exact fraction by
// at most half a cent, and is never below it minus half a cent.
func TestCalculateDeposit_RoundHalfUp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Int64Range(0, 1_000_000_000).Draw(t, "value")
		pct := rapid.IntRange(0, 100).Draw(t, "pct")

		split, err := CalculateDeposit(value, pct)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// deposit*100 must land within half a cent of value*pct,
		// favoring up on exact halves.
		diff := split.DepositCents*100 - value*int64(pct)
		if diff < -49 || diff > 50 {
			t.Fatalf("deposit %d is not value*pct/100 rounded half-up (diff %d)", split.DepositCents, diff)
		}
	})
}

func TestCalculateBalance_Percentage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Int64Range(1, 1_000_000_000).Draw(t, "value")
		paid := rapid.Int64Range(0, value).Draw(t, "paid")

		sum, err := CalculateBalance(value, paid)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sum.BalanceRemainingCents != value-paid {
			t.Fatalf("remaining %d != %d", sum.BalanceRemainingCents, value-paid)
		}
		if sum.BalancePercentage < 0 || sum.BalancePercentage > 100 {
			t.Fatalf("percentage %f outside [0,100]", sum.BalancePercentage)
		}
	})
}
