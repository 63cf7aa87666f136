// Package nav resolves which screen the POS front end shows next for an
// order. The rules form a small state machine with a fixed priority:
// WaitingForPayment is checked first because a Delivery order in that
// state goes to rider handoff, not the payment screen.
package nav

import (
	"strings"

	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/status"
)

// Destination is a navigation token the front end maps to a route.
type Destination string

const (
	DestPayment         Destination = "payment"
	DestDeliveryHandoff Destination = "delivery-handoff"
	DestOrderDetail     Destination = "order-detail"
	DestDineInList      Destination = "dine-in-list"
	DestTakeAwayList    Destination = "take-away-list"
	DestDeliveryList    Destination = "delivery-list"
)

// Resolve maps (order type, status) to exactly one destination.
// Evaluation order matters and is fixed:
//  1. WaitingForPayment: Delivery hands off to the rider, everything
//     else goes to payment.
//  2. Paid/Completed: order detail.
//  3. Cancelled (any casing): the channel's listing.
//  4. Any other active status: order detail.
func Resolve(orderType, orderStatus string) Destination {
	switch {
	case status.IsWaitingForPayment(orderStatus):
		if channelOf(orderType) == enum.OrderTypeDelivery {
			return DestDeliveryHandoff
		}
		return DestPayment
	case status.IsPaidOrCompleted(orderStatus):
		return DestOrderDetail
	case status.IsCancelled(orderStatus):
		return CancelListing(orderType)
	default:
		return DestOrderDetail
	}
}

// ResolveOrder is Resolve over a full order.
func ResolveOrder(order model.Order) Destination {
	return Resolve(order.OrderType, order.Status)
}

// CancelListing returns the channel listing a cancelled order falls back
// to. Order type matching is case-insensitive ("DINEIN" → dine-in).
func CancelListing(orderType string) Destination {
	switch channelOf(orderType) {
	case enum.OrderTypeTakeAway:
		return DestTakeAwayList
	case enum.OrderTypeDelivery:
		return DestDeliveryList
	default:
		return DestDineInList
	}
}

// channelOf normalizes an order type string to its canonical channel.
// Unknown types fall back to DineIn, the walk-in default.
func channelOf(orderType string) string {
	switch strings.ToLower(strings.TrimSpace(orderType)) {
	case "takeaway", "take-away":
		return enum.OrderTypeTakeAway
	case "delivery":
		return enum.OrderTypeDelivery
	default:
		return enum.OrderTypeDineIn
	}
}
