// Package model holds the plain order shapes exchanged with the POS
// front end. Monetary fields are Thai Baht with two fractional digits.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is a transaction header as persisted by the order store.
// TotalAmount is authoritative once the order exists; nothing downstream
// recomputes it.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	OutletID       uuid.UUID       `json:"outlet_id"`
	OrderNo        string          `json:"order_no"`
	OrderType      string          `json:"order_type"`
	Status         string          `json:"status"`
	StatusText     string          `json:"status_text"`
	StatusColor    string          `json:"status_color"`
	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	VAT            decimal.Decimal `json:"vat"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
	TableID        *uuid.UUID      `json:"table_id,omitempty"`
	DeliveryID     *uuid.UUID      `json:"delivery_id,omitempty"`
	DeliveryCode   string          `json:"delivery_code,omitempty"`
	DiscountID     *uuid.UUID      `json:"discount_id,omitempty"`
	Items          []LineItem      `json:"items"`
	Payments       []Payment       `json:"payments,omitempty"`
	CreatedBy      uuid.UUID       `json:"created_by"`
	CreateDate     time.Time       `json:"create_date"`
	UpdateDate     time.Time       `json:"update_date"`
}

// LineItem is one product within an order. Price is the unit price
// snapshot taken at order time; TotalPrice includes modifier extras.
type LineItem struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name,omitempty"`
	Quantity       int32           `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Notes          string          `json:"notes,omitempty"`
	Status         string          `json:"status"`
	Details        []Detail        `json:"details,omitempty"`
}

// Detail is a named add-on on a line item (topping, "no ice", extra shot).
type Detail struct {
	DetailName string          `json:"detail_name"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
}

// Payment is a settlement record attached to an order.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	PaymentMethod  string          `json:"payment_method"`
	Amount         decimal.Decimal `json:"amount"`
	ReceivedAmount decimal.Decimal `json:"received_amount"`
	ChangeAmount   decimal.Decimal `json:"change_amount"`
	ProcessedBy    uuid.UUID       `json:"processed_by"`
	ProcessedAt    time.Time       `json:"processed_at"`
}

// Product carries the two price columns the channels select from.
// DeliveryPrice of zero means the product has no delivery price list and
// the standard price applies on every channel.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	OutletID      uuid.UUID       `json:"outlet_id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
}

// Discount is a named pricing rule. Percentage amounts are 0-100.
type Discount struct {
	ID     uuid.UUID       `json:"id"`
	Name   string          `json:"name"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
	Active bool            `json:"active"`
}

// CartItem is a client-side pre-order line. It has no identity until the
// payload builder converts the cart into a create-order request.
type CartItem struct {
	Product  Product  `json:"product"`
	Quantity int32    `json:"quantity"`
	Notes    string   `json:"notes,omitempty"`
	Details  []Detail `json:"details,omitempty"`
}
