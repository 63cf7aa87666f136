// Package payload assembles create-order requests from cart contents.
// This is the only place price-list selection happens; picking the wrong
// price column here silently mischarges every total derived from the line.
package payload

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/money"
)

// CreateOrder is the request body sent to the order store. VAT is always
// zero by business rule, not computed from a rate.
type CreateOrder struct {
	OrderNo        string          `json:"order_no"`
	OrderType      string          `json:"order_type"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VAT            decimal.Decimal `json:"vat"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
	Status         string          `json:"status"`
	DiscountID     *uuid.UUID      `json:"discount_id,omitempty"`
	TableID        *uuid.UUID      `json:"table_id,omitempty"`
	DeliveryID     *uuid.UUID      `json:"delivery_id,omitempty"`
	DeliveryCode   string          `json:"delivery_code,omitempty"`
	Items          []CreateItem    `json:"items"`
}

// CreateItem is one order line in the request.
type CreateItem struct {
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int32           `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Notes          string          `json:"notes,omitempty"`
	Status         string          `json:"status"`
	Details        []model.Detail  `json:"details,omitempty"`
}

// Totals carries the order-level amounts resolved before building.
type Totals struct {
	SubTotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Refs carries optional foreign references for the new order.
type Refs struct {
	OrderNo      string
	DiscountID   *uuid.UUID
	TableID      *uuid.UUID
	DeliveryID   *uuid.UUID
	DeliveryCode string
}

// priceResolvers selects the product price column per channel. Adding a
// channel with its own price list is one entry here.
var priceResolvers = map[string]func(model.Product) decimal.Decimal{
	enum.OrderTypeDelivery: func(p model.Product) decimal.Decimal {
		if p.DeliveryPrice.IsPositive() {
			return p.DeliveryPrice
		}
		return p.Price
	},
}

// PriceFor returns the unit price a channel charges for a product.
func PriceFor(p model.Product, orderType string) decimal.Decimal {
	if resolve, ok := priceResolvers[orderType]; ok {
		return resolve(p)
	}
	return p.Price
}

// Build assembles a create-order request from cart items. New orders
// start Pending; their lines start Cooking because the kitchen picks
// work up the moment an order lands.
func Build(cart []model.CartItem, orderType string, totals Totals, refs Refs) CreateOrder {
	orderNo := refs.OrderNo
	if orderNo == "" {
		orderNo = fallbackOrderNo(time.Now())
	}

	items := make([]CreateItem, len(cart))
	for i, c := range cart {
		unitPrice := PriceFor(c.Product, orderType)
		items[i] = CreateItem{
			ProductID:      c.Product.ID,
			Quantity:       c.Quantity,
			Price:          unitPrice,
			TotalPrice:     money.ItemTotal(unitPrice, c.Quantity, c.Details),
			DiscountAmount: decimal.Zero,
			Notes:          c.Notes,
			Status:         enum.ItemStatusCooking,
			Details:        c.Details,
		}
	}

	return CreateOrder{
		OrderNo:        orderNo,
		OrderType:      orderType,
		SubTotal:       totals.SubTotal,
		DiscountAmount: totals.DiscountAmount,
		VAT:            decimal.Zero,
		TotalAmount:    totals.TotalAmount,
		ReceivedAmount: decimal.Zero,
		ChangeAmount:   decimal.Zero,
		Status:         enum.OrderStatusPending,
		DiscountID:     refs.DiscountID,
		TableID:        refs.TableID,
		DeliveryID:     refs.DeliveryID,
		DeliveryCode:   refs.DeliveryCode,
		Items:          items,
	}
}

// fallbackOrderNo generates a time-based order number when the caller
// did not reserve one.
func fallbackOrderNo(now time.Time) string {
	return fmt.Sprintf("ORD-%s", now.Format("20060102150405"))
}
