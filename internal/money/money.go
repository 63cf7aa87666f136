// Package money computes order totals, discounts, and change. All
// arithmetic is exact decimal; values render to two fractional digits
// (satang) only at the formatting boundary.
package money

import (
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/status"
)

var oneHundred = decimal.NewFromInt(100)

// PaymentTotals mirrors the settlement figures shown on the payment
// screen. Everything except Change is read from the persisted order.
type PaymentTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	VAT      decimal.Decimal `json:"vat"`
	Total    decimal.Decimal `json:"total"`
	Change   decimal.Decimal `json:"change"`
}

// Parse converts a money string to a decimal, coercing anything
// malformed to zero so half-loaded data still renders.
func Parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ItemTotal is the extras-inclusive line total:
// (unit price + sum of detail extras) * quantity.
// Negative quantities are the caller's problem; this never panics.
func ItemTotal(unitPrice decimal.Decimal, quantity int32, details []model.Detail) decimal.Decimal {
	extras := decimal.Zero
	for _, d := range details {
		extras = extras.Add(d.ExtraPrice)
	}
	return unitPrice.Add(extras).Mul(decimal.NewFromInt32(quantity))
}

// OrderTotal sums TotalPrice across items, excluding anything the
// cancelled predicate matches. Voided items stay on the record for audit
// but never reach a charged amount.
func OrderTotal(items []model.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if status.IsCancelled(item.Status) {
			continue
		}
		total = total.Add(item.TotalPrice)
	}
	return total
}

// Settlement calculates the payment view for an order. The persisted
// order is the pricing authority: subtotal, discount, VAT and total are
// taken verbatim, never recomputed. Change is the only derived value and
// floors at zero. A nil order yields all zeros.
func Settlement(order *model.Order, received decimal.Decimal) PaymentTotals {
	if order == nil {
		return PaymentTotals{}
	}
	change := received.Sub(order.TotalAmount)
	if change.IsNegative() {
		change = decimal.Zero
	}
	return PaymentTotals{
		Subtotal: order.SubTotal,
		Discount: order.DiscountAmount,
		VAT:      order.VAT,
		Total:    order.TotalAmount,
		Change:   change,
	}
}

// ApplyDiscount resolves a discount against a subtotal at order-authoring
// time. Percentages clamp to [0,100] and fixed amounts clamp to the
// subtotal; misconfigured discounts are rejected upstream, this is the
// last line of defense. Returns the discount amount and the resulting
// total, which never goes below zero.
func ApplyDiscount(subtotal decimal.Decimal, discountType string, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	discount := decimal.Zero
	switch discountType {
	case enum.DiscountTypePercentage:
		pct := amount
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(oneHundred) {
			pct = oneHundred
		}
		discount = subtotal.Mul(pct).Div(oneHundred)
	case enum.DiscountTypeFixed:
		discount = amount
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
		if discount.IsNegative() {
			discount = decimal.Zero
		}
	}
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return discount, total
}
