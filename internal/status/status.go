// Package status centralizes every order/item status comparison. The
// order store has historically carried both canonical casing ("Cancelled")
// and ad hoc lowercase values ("cancelled", "waitingforpayment") for the
// same state, so raw string equality anywhere else is a billing bug
// waiting to happen.
package status

import (
	"strings"

	"github.com/baansom-pos/api/internal/enum"
)

// IsCancelled reports whether the status marks a voided order or item.
// Tolerates empty strings and any casing.
func IsCancelled(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), enum.OrderStatusCancelled)
}

// IsPaidOrCompleted reports whether the order is settled. Paid/Completed
// are only ever written by this service, so canonical match is enough.
func IsPaidOrCompleted(s string) bool {
	return s == enum.OrderStatusPaid || s == enum.OrderStatusCompleted
}

// IsWaitingForPayment matches the checkout-pending state in any casing.
func IsWaitingForPayment(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), enum.OrderStatusWaitingForPayment)
}

// Canonical maps a possibly legacy-cased status onto its canonical enum
// value. The second return is false for statuses this service does not
// know, which callers must treat as pass-through, never as an error.
func Canonical(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return enum.OrderStatusPending, true
	case "cooking":
		return enum.OrderStatusCooking, true
	case "served":
		return enum.OrderStatusServed, true
	case "waitingforpayment":
		return enum.OrderStatusWaitingForPayment, true
	case "paid":
		return enum.OrderStatusPaid, true
	case "completed":
		return enum.OrderStatusCompleted, true
	case "cancelled":
		return enum.OrderStatusCancelled, true
	}
	return "", false
}

// Text returns the display label for a status. Served reads differently
// for orders that leave the restaurant. Unknown statuses come back
// unchanged so a new backend state never breaks rendering.
func Text(s, orderType string) string {
	canonical, ok := Canonical(s)
	if !ok {
		if IsCancelled(s) {
			return "Cancelled"
		}
		return s
	}

	switch canonical {
	case enum.OrderStatusPending:
		return "Pending"
	case enum.OrderStatusCooking:
		return "Cooking"
	case enum.OrderStatusServed:
		if orderType == enum.OrderTypeTakeAway || orderType == enum.OrderTypeDelivery {
			return "Packed"
		}
		return "Served"
	case enum.OrderStatusWaitingForPayment:
		return "Waiting for payment"
	case enum.OrderStatusPaid:
		return "Paid"
	case enum.OrderStatusCompleted:
		return "Completed"
	case enum.OrderStatusCancelled:
		return "Cancelled"
	}
	return s
}

// Color returns the UI color token for a status. Anything that classifies
// as cancelled is red regardless of casing; unknown statuses get the
// default token.
func Color(s string) string {
	if IsCancelled(s) {
		return "red"
	}
	canonical, ok := Canonical(s)
	if !ok {
		return "default"
	}
	switch canonical {
	case enum.OrderStatusPending:
		return "orange"
	case enum.OrderStatusCooking:
		return "blue"
	case enum.OrderStatusServed:
		return "cyan"
	case enum.OrderStatusWaitingForPayment:
		return "gold"
	case enum.OrderStatusPaid, enum.OrderStatusCompleted:
		return "green"
	}
	return "default"
}
