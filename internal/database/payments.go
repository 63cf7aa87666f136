package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `
INSERT INTO payments (order_id, payment_method, amount, received_amount, change_amount, processed_by)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, order_id, payment_method, amount, received_amount, change_amount, processed_by, processed_at
`

type CreatePaymentParams struct {
	OrderID        uuid.UUID
	PaymentMethod  string
	Amount         pgtype.Numeric
	ReceivedAmount pgtype.Numeric
	ChangeAmount   pgtype.Numeric
	ProcessedBy    uuid.UUID
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) (Payment, error) {
	row := q.db.QueryRow(ctx, createPayment,
		arg.OrderID, arg.PaymentMethod, arg.Amount, arg.ReceivedAmount, arg.ChangeAmount, arg.ProcessedBy,
	)
	var i Payment
	err := row.Scan(
		&i.ID, &i.OrderID, &i.PaymentMethod, &i.Amount, &i.ReceivedAmount, &i.ChangeAmount,
		&i.ProcessedBy, &i.ProcessedAt,
	)
	return i, err
}

const listPaymentsByOrder = `
SELECT id, order_id, payment_method, amount, received_amount, change_amount, processed_by, processed_at
FROM payments
WHERE order_id = $1
ORDER BY processed_at
`

func (q *Queries) ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payment
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID, &i.OrderID, &i.PaymentMethod, &i.Amount, &i.ReceivedAmount, &i.ChangeAmount,
			&i.ProcessedBy, &i.ProcessedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const sumPaymentsByOrder = `
SELECT COALESCE(SUM(amount), 0)
FROM payments
WHERE order_id = $1
`

func (q *Queries) SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumPaymentsByOrder, orderID)
	var n pgtype.Numeric
	err := row.Scan(&n)
	return n, err
}
