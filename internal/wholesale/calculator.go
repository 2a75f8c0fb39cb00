package wholesale

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DepositSplit is the deposit/balance breakdown of an order value.
// All amounts are integer minor units; the balance is derived by
// subtraction so deposit + balance always equals the order value
// exactly.
type DepositSplit struct {
	OrderValueCents   int64 `json:"order_value_cents"`
	DepositPercentage int   `json:"deposit_percentage"`
	DepositCents      int64 `json:"deposit_cents"`
	BalanceCents      int64 `json:"balance_cents"`
}

// BalanceSummary describes what remains after a deposit payment.
type BalanceSummary struct {
	BalanceRemainingCents int64   `json:"balance_remaining_cents"`
	BalancePercentage     float64 `json:"balance_percentage"`
}

// CalculateDeposit splits an order value by the seller's deposit
// percentage. The deposit is rounded half-up; the balance is the exact
// remainder, never rounded independently.
func CalculateDeposit(orderValueCents int64, depositPercentage int) (DepositSplit, error) {
	if depositPercentage < 0 || depositPercentage > 100 {
		return DepositSplit{}, &ValidationError{
			Message: fmt.Sprintf("deposit percentage must be between 0 and 100, got %d", depositPercentage),
		}
	}
	if orderValueCents < 0 {
		return DepositSplit{}, &ValidationError{
			Message: fmt.Sprintf("order value must not be negative, got %d", orderValueCents),
		}
	}

	deposit := (orderValueCents*int64(depositPercentage) + 50) / 100
	return DepositSplit{
		OrderValueCents:   orderValueCents,
		DepositPercentage: depositPercentage,
		DepositCents:      deposit,
		BalanceCents:      orderValueCents - deposit,
	}, nil
}

// CalculateBalance reports the remaining balance after depositPaidCents
// has been paid against orderValueCents.
func CalculateBalance(orderValueCents, depositPaidCents int64) (BalanceSummary, error) {
	if orderValueCents < 0 || depositPaidCents < 0 {
		return BalanceSummary{}, &ValidationError{Message: "order value and deposit paid must not be negative"}
	}
	if depositPaidCents > orderValueCents {
		return BalanceSummary{}, &ValidationError{
			Message: fmt.Sprintf("deposit paid (%d) exceeds order value (%d)", depositPaidCents, orderValueCents),
		}
	}

	remaining := orderValueCents - depositPaidCents
	var pct float64
	if orderValueCents > 0 {
		pct = float64(remaining) / float64(orderValueCents) * 100
	}
	return BalanceSummary{BalanceRemainingCents: remaining, BalancePercentage: pct}, nil
}

const TermsImmediate = "Immediate"

var netTermsRe = regexp.MustCompile(`^Net (\d+)$`)

// CalculatePaymentDueDate resolves "Immediate" or "Net N" terms to a
// due date relative to the order date.
func CalculatePaymentDueDate(orderDate time.Time, terms string) (time.Time, error) {
	if terms == TermsImmediate {
		return orderDate, nil
	}
	m := netTermsRe.FindStringSubmatch(terms)
	if m == nil {
		return time.Time{}, &UnknownTermsError{Terms: terms}
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, &UnknownTermsError{Terms: terms}
	}
	return orderDate.AddDate(0, 0, days), nil
}
