package services

import (
	"fmt"

	"salonhub-backend/models"

	"github.com/shopspring/decimal"
)

// A line or total may be off by at most one cent before it counts as a mismatch.
var tolerance = decimal.New(1, -2)

// CheckTotals returns one message per violated bill invariant:
// grandTotal = subtotal + gst, finalTotal = grandTotal - cashback,
// service finalPrice = price - discount and
// product finalPrice = (price - discount) * quantity.
func CheckTotals(b models.Billing) []string {
	var violations []string

	if b.GrandTotal != b.Subtotal+b.GST {
		violations = append(violations, fmt.Sprintf("grandTotal %d != subtotal %d + gst %d", b.GrandTotal, b.Subtotal, b.GST))
	}
	if b.FinalTotal != b.GrandTotal-b.Cashback {
		violations = append(violations, fmt.Sprintf("finalTotal %d != grandTotal %d - cashback %d", b.FinalTotal, b.GrandTotal, b.Cashback))
	}

	for i, s := range b.Services {
		want := decimal.NewFromFloat(s.Price).Sub(decimal.NewFromFloat(s.Discount))
		if !closeEnough(decimal.NewFromFloat(s.FinalPrice), want) {
			violations = append(violations, fmt.Sprintf("services[%d] %q finalPrice %v != %v", i, s.Name, s.FinalPrice, want))
		}
	}
	for i, p := range b.Products {
		want := decimal.NewFromFloat(p.Price).Sub(decimal.NewFromFloat(p.Discount)).Mul(decimal.NewFromInt(int64(p.Quantity)))
		if !closeEnough(decimal.NewFromFloat(p.FinalPrice), want) {
			violations = append(violations, fmt.Sprintf("products[%d] %q finalPrice %v != %v", i, p.Name, p.FinalPrice, want))
		}
	}
	return violations
}

func closeEnough(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}

// TotalsError carries the violations found under the strict policy.
type TotalsError struct {
	Violations []string
}

func (e *TotalsError) Error() string {
	return fmt.Sprintf("%s: %d violation(s)", ErrTotalsMismatch, len(e.Violations))
}

func (e *TotalsError) Unwrap() error {
	return ErrTotalsMismatch
}
