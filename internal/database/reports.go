package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getDailySales = `
SELECT create_date::date AS sale_date,
	COUNT(*) AS order_count,
	COALESCE(SUM(sub_total), 0) AS gross,
	COALESCE(SUM(discount_amount), 0) AS discount,
	COALESCE(SUM(total_amount), 0) AS net
FROM orders
WHERE outlet_id = $1
	AND lower(status) IN ('paid', 'completed')
	AND create_date >= $2 AND create_date < $3
GROUP BY create_date::date
ORDER BY sale_date
`

type GetDailySalesParams struct {
	OutletID  uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

type GetDailySalesRow struct {
	SaleDate   pgtype.Date
	OrderCount int64
	Gross      pgtype.Numeric
	Discount   pgtype.Numeric
	Net        pgtype.Numeric
}

// GetDailySales aggregates settled orders only; the status predicate is
// lower-cased in SQL to absorb legacy-cased rows.
func (q *Queries) GetDailySales(ctx context.Context, arg GetDailySalesParams) ([]GetDailySalesRow, error) {
	rows, err := q.db.Query(ctx, getDailySales, arg.OutletID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetDailySalesRow
	for rows.Next() {
		var i GetDailySalesRow
		if err := rows.Scan(&i.SaleDate, &i.OrderCount, &i.Gross, &i.Discount, &i.Net); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getChannelSummary = `
SELECT order_type,
	COUNT(*) AS order_count,
	COALESCE(SUM(total_amount), 0) AS revenue
FROM orders
WHERE outlet_id = $1
	AND lower(status) IN ('paid', 'completed')
	AND create_date >= $2 AND create_date < $3
GROUP BY order_type
ORDER BY revenue DESC
`

type GetChannelSummaryParams struct {
	OutletID  uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

type GetChannelSummaryRow struct {
	OrderType  string
	OrderCount int64
	Revenue    pgtype.Numeric
}

func (q *Queries) GetChannelSummary(ctx context.Context, arg GetChannelSummaryParams) ([]GetChannelSummaryRow, error) {
	rows, err := q.db.Query(ctx, getChannelSummary, arg.OutletID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetChannelSummaryRow
	for rows.Next() {
		var i GetChannelSummaryRow
		if err := rows.Scan(&i.OrderType, &i.OrderCount, &i.Revenue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
