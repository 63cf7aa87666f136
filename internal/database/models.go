package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Order status and order type columns are plain text. Legacy rows imported
// from the previous system carry lowercase status values; classification
// happens in internal/status, never by raw comparison against these fields.
type Order struct {
	ID             uuid.UUID
	OutletID       uuid.UUID
	OrderNo        string
	OrderType      string
	Status         string
	SubTotal       pgtype.Numeric
	DiscountAmount pgtype.Numeric
	Vat            pgtype.Numeric
	TotalAmount    pgtype.Numeric
	ReceivedAmount pgtype.Numeric
	ChangeAmount   pgtype.Numeric
	TableID        pgtype.UUID
	DeliveryID     pgtype.UUID
	DeliveryCode   pgtype.Text
	DiscountID     pgtype.UUID
	CreatedBy      uuid.UUID
	CreateDate     time.Time
	UpdateDate     time.Time
}

// OrderItem snapshots the product name and unit price at sale time.
// Details is a JSONB array of {detail_name, extra_price} modifiers.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	Quantity       int32
	Price          pgtype.Numeric
	TotalPrice     pgtype.Numeric
	DiscountAmount pgtype.Numeric
	Notes          pgtype.Text
	Status         string
	Details        []byte
}

type Payment struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	PaymentMethod  string
	Amount         pgtype.Numeric
	ReceivedAmount pgtype.Numeric
	ChangeAmount   pgtype.Numeric
	ProcessedBy    uuid.UUID
	ProcessedAt    time.Time
}

// Product carries two price columns; delivery_price NULL/zero means the
// standard price applies on every channel.
type Product struct {
	ID            uuid.UUID
	OutletID      uuid.UUID
	Name          string
	Price         pgtype.Numeric
	DeliveryPrice pgtype.Numeric
	Active        bool
}

type Discount struct {
	ID     uuid.UUID
	Name   string
	Type   string
	Amount pgtype.Numeric
	Active bool
}

type User struct {
	ID             uuid.UUID
	OutletID       uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	Role           string
}
