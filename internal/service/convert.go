package service

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/status"
)

func marshalDetails(details []model.Detail) ([]byte, error) {
	if len(details) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(details)
}

func unmarshalDetails(raw []byte) ([]model.Detail, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var details []model.Detail
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	return details, nil
}

func pgToUUIDPtr(p pgtype.UUID) *uuid.UUID {
	if !p.Valid {
		return nil
	}
	id := uuid.UUID(p.Bytes)
	return &id
}

// OrderToModel converts a database order row to the wire shape.
func OrderToModel(row database.Order) model.Order {
	return model.Order{
		ID:             row.ID,
		OutletID:       row.OutletID,
		OrderNo:        row.OrderNo,
		OrderType:      row.OrderType,
		Status:         row.Status,
		StatusText:     status.Text(row.Status, row.OrderType),
		StatusColor:    status.Color(row.Status),
		SubTotal:       numericToDecimal(row.SubTotal),
		DiscountAmount: numericToDecimal(row.DiscountAmount),
		VAT:            numericToDecimal(row.Vat),
		TotalAmount:    numericToDecimal(row.TotalAmount),
		ReceivedAmount: numericToDecimal(row.ReceivedAmount),
		ChangeAmount:   numericToDecimal(row.ChangeAmount),
		TableID:        pgToUUIDPtr(row.TableID),
		DeliveryID:     pgToUUIDPtr(row.DeliveryID),
		DeliveryCode:   row.DeliveryCode.String,
		DiscountID:     pgToUUIDPtr(row.DiscountID),
		CreatedBy:      row.CreatedBy,
		CreateDate:     row.CreateDate,
		UpdateDate:     row.UpdateDate,
	}
}

// ItemToModel converts a database order item row to the wire shape.
// Malformed details JSON degrades to an empty modifier list rather than
// failing the whole order read.
func ItemToModel(row database.OrderItem) model.LineItem {
	details, err := unmarshalDetails(row.Details)
	if err != nil {
		details = nil
	}
	return model.LineItem{
		ID:             row.ID,
		OrderID:        row.OrderID,
		ProductID:      row.ProductID,
		ProductName:    row.ProductName,
		Quantity:       row.Quantity,
		Price:          numericToDecimal(row.Price),
		TotalPrice:     numericToDecimal(row.TotalPrice),
		DiscountAmount: numericToDecimal(row.DiscountAmount),
		Notes:          row.Notes.String,
		Status:         row.Status,
		Details:        details,
	}
}

// PaymentToModel converts a database payment row to the wire shape.
func PaymentToModel(row database.Payment) model.Payment {
	return model.Payment{
		ID:             row.ID,
		OrderID:        row.OrderID,
		PaymentMethod:  row.PaymentMethod,
		Amount:         numericToDecimal(row.Amount),
		ReceivedAmount: numericToDecimal(row.ReceivedAmount),
		ChangeAmount:   numericToDecimal(row.ChangeAmount),
		ProcessedBy:    row.ProcessedBy,
		ProcessedAt:    row.ProcessedAt,
	}
}

// DiscountToModel converts a database discount row to the wire shape.
func DiscountToModel(row database.Discount) model.Discount {
	return model.Discount{
		ID:     row.ID,
		Name:   row.Name,
		Type:   row.Type,
		Amount: numericToDecimal(row.Amount),
		Active: row.Active,
	}
}

// ProductToModel converts a database product row to the wire shape.
func ProductToModel(row database.Product) model.Product {
	return model.Product{
		ID:            row.ID,
		OutletID:      row.OutletID,
		Name:          row.Name,
		Price:         numericToDecimal(row.Price),
		DeliveryPrice: numericToDecimal(row.DeliveryPrice),
	}
}
