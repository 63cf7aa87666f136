// Package grouping collapses logically identical line items into single
// receipt rows. Two items merge only when product, modifiers, note and
// status all agree; grouping by product alone would fold "no ice" and
// "extra ice" into one row and corrupt the receipt.
package grouping

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/model"
)

// GroupedItem is one display row. Originals keeps the contributing line
// items so callers can still act on individual rows (cancel one of three
// identical plates).
type GroupedItem struct {
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	Quantity    int32            `json:"quantity"`
	TotalPrice  decimal.Decimal  `json:"total_price"`
	Notes       string           `json:"notes,omitempty"`
	Status      string           `json:"status"`
	Details     []model.Detail   `json:"details,omitempty"`
	Originals   []model.LineItem `json:"-"`
}

// GroupItems merges duplicate line items, preserving the first-occurrence
// order of each distinct combination. Empty input yields an empty slice.
func GroupItems(items []model.LineItem) []GroupedItem {
	groups := make(map[string]int, len(items))
	result := make([]GroupedItem, 0, len(items))

	for _, item := range items {
		key := groupKey(item)
		idx, ok := groups[key]
		if !ok {
			groups[key] = len(result)
			result = append(result, GroupedItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Price:       item.Price,
				Quantity:    item.Quantity,
				TotalPrice:  item.TotalPrice,
				Notes:       strings.TrimSpace(item.Notes),
				Status:      item.Status,
				Details:     sortedDetails(item.Details),
				Originals:   []model.LineItem{item},
			})
			continue
		}
		result[idx].Quantity += item.Quantity
		result[idx].TotalPrice = result[idx].TotalPrice.Add(item.TotalPrice)
		result[idx].Originals = append(result[idx].Originals, item)
	}

	return result
}

// groupKey builds the composite identity of a line item. Details are
// sorted by name first so the same modifiers submitted in a different
// order still produce the same key.
func groupKey(item model.LineItem) string {
	details, _ := json.Marshal(sortedDetails(item.Details))
	var b strings.Builder
	b.WriteString(item.ProductID.String())
	b.WriteByte('|')
	b.Write(details)
	b.WriteByte('|')
	b.WriteString(strings.TrimSpace(item.Notes))
	b.WriteByte('|')
	b.WriteString(item.Status)
	return b.String()
}

func sortedDetails(details []model.Detail) []model.Detail {
	if len(details) == 0 {
		return []model.Detail{}
	}
	sorted := make([]model.Detail, len(details))
	copy(sorted, details)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DetailName < sorted[j].DetailName
	})
	return sorted
}
