package database

import (
	"context"

	"github.com/google/uuid"
)

const getProductForOrder = `
SELECT id, outlet_id, name, price, delivery_price, active
FROM products
WHERE id = $1 AND outlet_id = $2 AND active
`

type GetProductForOrderParams struct {
	ID       uuid.UUID
	OutletID uuid.UUID
}

func (q *Queries) GetProductForOrder(ctx context.Context, arg GetProductForOrderParams) (Product, error) {
	row := q.db.QueryRow(ctx, getProductForOrder, arg.ID, arg.OutletID)
	var i Product
	err := row.Scan(&i.ID, &i.OutletID, &i.Name, &i.Price, &i.DeliveryPrice, &i.Active)
	return i, err
}

const listProductsByOutlet = `
SELECT id, outlet_id, name, price, delivery_price, active
FROM products
WHERE outlet_id = $1 AND active
ORDER BY name
`

func (q *Queries) ListProductsByOutlet(ctx context.Context, outletID uuid.UUID) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProductsByOutlet, outletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Product
	for rows.Next() {
		var i Product
		if err := rows.Scan(&i.ID, &i.OutletID, &i.Name, &i.Price, &i.DeliveryPrice, &i.Active); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
