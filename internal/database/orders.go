package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getNextOrderNumber = `
SELECT COALESCE(MAX(CAST(SUBSTRING(order_no FROM 'BS-(\d+)') AS INTEGER)), 0) + 1
FROM orders
WHERE outlet_id = $1 AND create_date::date = CURRENT_DATE
`

// GetNextOrderNumber returns the next daily sequence number for an outlet.
// Not race-free on its own; callers retry on the order_no unique violation.
func (q *Queries) GetNextOrderNumber(ctx context.Context, outletID uuid.UUID) (int32, error) {
	row := q.db.QueryRow(ctx, getNextOrderNumber, outletID)
	var n int32
	err := row.Scan(&n)
	return n, err
}

const createOrder = `
INSERT INTO orders (
	outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
`

type CreateOrderParams struct {
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
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OutletID, arg.OrderNo, arg.OrderType, arg.Status,
		arg.SubTotal, arg.DiscountAmount, arg.Vat, arg.TotalAmount, arg.ReceivedAmount, arg.ChangeAmount,
		arg.TableID, arg.DeliveryID, arg.DeliveryCode, arg.DiscountID, arg.CreatedBy,
	)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}

const createOrderItem = `
INSERT INTO order_items (
	order_id, product_id, product_name, quantity, price, total_price,
	discount_amount, notes, status, details
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, order_id, product_id, product_name, quantity, price, total_price,
	discount_amount, notes, status, details
`

type CreateOrderItemParams struct {
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

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductID, arg.ProductName, arg.Quantity, arg.Price, arg.TotalPrice,
		arg.DiscountAmount, arg.Notes, arg.Status, arg.Details,
	)
	var i OrderItem
	err := row.Scan(
		&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.Price, &i.TotalPrice,
		&i.DiscountAmount, &i.Notes, &i.Status, &i.Details,
	)
	return i, err
}

const getOrder = `
SELECT id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
FROM orders
WHERE id = $1 AND outlet_id = $2
`

type GetOrderParams struct {
	ID       uuid.UUID
	OutletID uuid.UUID
}

func (q *Queries) GetOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, arg.ID, arg.OutletID)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}

const getOrderForUpdate = `
SELECT id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
FROM orders
WHERE id = $1 AND outlet_id = $2
FOR NO KEY UPDATE
`

// GetOrderForUpdate locks the order row to serialize concurrent settlement.
func (q *Queries) GetOrderForUpdate(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, getOrderForUpdate, arg.ID, arg.OutletID)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}

const listOrders = `
SELECT id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
FROM orders
WHERE outlet_id = $1
	AND ($2::text IS NULL OR lower(status) = lower($2))
	AND ($3::text IS NULL OR lower(order_type) = lower($3))
ORDER BY create_date DESC
LIMIT $4 OFFSET $5
`

type ListOrdersParams struct {
	OutletID  uuid.UUID
	Status    pgtype.Text
	OrderType pgtype.Text
	Limit     int32
	Offset    int32
}

// ListOrders filters case-insensitively so legacy-cased rows still show
// up under their canonical status.
func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.OutletID, arg.Status, arg.OrderType, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		var i Order
		if err := rows.Scan(
			&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
			&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
			&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listOrderItemsByOrder = `
SELECT id, order_id, product_id, product_name, quantity, price, total_price,
	discount_amount, notes, status, details
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(
			&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.Price, &i.TotalPrice,
			&i.DiscountAmount, &i.Notes, &i.Status, &i.Details,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $3, update_date = now()
WHERE id = $1 AND outlet_id = $2
RETURNING id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
`

type UpdateOrderStatusParams struct {
	ID       uuid.UUID
	OutletID uuid.UUID
	Status   string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	row := q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.OutletID, arg.Status)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}

const updateOrderItemStatus = `
UPDATE order_items
SET status = $2
WHERE id = $1
RETURNING id, order_id, product_id, product_name, quantity, price, total_price,
	discount_amount, notes, status, details
`

type UpdateOrderItemStatusParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) UpdateOrderItemStatus(ctx context.Context, arg UpdateOrderItemStatusParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, updateOrderItemStatus, arg.ID, arg.Status)
	var i OrderItem
	err := row.Scan(
		&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.Price, &i.TotalPrice,
		&i.DiscountAmount, &i.Notes, &i.Status, &i.Details,
	)
	return i, err
}

const settleOrder = `
UPDATE orders
SET status = $3, received_amount = $4, change_amount = $5, update_date = now()
WHERE id = $1 AND outlet_id = $2
RETURNING id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
`

type SettleOrderParams struct {
	ID             uuid.UUID
	OutletID       uuid.UUID
	Status         string
	ReceivedAmount pgtype.Numeric
	ChangeAmount   pgtype.Numeric
}

// SettleOrder records the received/change amounts alongside the terminal
// status ("Paid", or "Completed" for delivery handoff).
func (q *Queries) SettleOrder(ctx context.Context, arg SettleOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, settleOrder, arg.ID, arg.OutletID, arg.Status, arg.ReceivedAmount, arg.ChangeAmount)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}

const cancelOrder = `
UPDATE orders
SET status = 'Cancelled', update_date = now()
WHERE id = $1 AND outlet_id = $2
	AND lower(status) NOT IN ('paid', 'completed', 'cancelled')
RETURNING id, outlet_id, order_no, order_type, status,
	sub_total, discount_amount, vat, total_amount, received_amount, change_amount,
	table_id, delivery_id, delivery_code, discount_id, created_by, create_date, update_date
`

// CancelOrder voids an active order. The guard is case-insensitive so
// legacy-cased settled rows cannot be re-cancelled.
func (q *Queries) CancelOrder(ctx context.Context, arg GetOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, cancelOrder, arg.ID, arg.OutletID)
	var i Order
	err := row.Scan(
		&i.ID, &i.OutletID, &i.OrderNo, &i.OrderType, &i.Status,
		&i.SubTotal, &i.DiscountAmount, &i.Vat, &i.TotalAmount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.TableID, &i.DeliveryID, &i.DeliveryCode, &i.DiscountID, &i.CreatedBy, &i.CreateDate, &i.UpdateDate,
	)
	return i, err
}
