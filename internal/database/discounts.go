package database

import (
	"context"

	"github.com/google/uuid"
)

const getDiscount = `
SELECT id, name, type, amount, active
FROM discounts
WHERE id = $1
`

func (q *Queries) GetDiscount(ctx context.Context, id uuid.UUID) (Discount, error) {
	row := q.db.QueryRow(ctx, getDiscount, id)
	var i Discount
	err := row.Scan(&i.ID, &i.Name, &i.Type, &i.Amount, &i.Active)
	return i, err
}

const listActiveDiscounts = `
SELECT id, name, type, amount, active
FROM discounts
WHERE active
ORDER BY name
`

func (q *Queries) ListActiveDiscounts(ctx context.Context) ([]Discount, error) {
	rows, err := q.db.Query(ctx, listActiveDiscounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Discount
	for rows.Next() {
		var i Discount
		if err := rows.Scan(&i.ID, &i.Name, &i.Type, &i.Amount, &i.Active); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
