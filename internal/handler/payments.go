package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/middleware"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/money"
	"github.com/baansom-pos/api/internal/service"
	"github.com/baansom-pos/api/internal/status"
	"github.com/baansom-pos/api/internal/ws"
)

// PaymentStore defines the database methods needed by payment handlers.
// Satisfied by *database.Queries over a pool or a transaction.
type PaymentStore interface {
	GetOrderForUpdate(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	SettleOrder(ctx context.Context, arg database.SettleOrderParams) (database.Order, error)
}

// NewPaymentStore creates a PaymentStore from a DBTX (pool or tx).
type NewPaymentStore func(db database.DBTX) PaymentStore

// PaymentHandler handles settlement endpoints.
type PaymentHandler struct {
	pool     service.TxBeginner
	newStore NewPaymentStore
	hub      Broadcaster
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(pool service.TxBeginner, newStore NewPaymentStore, hub Broadcaster) *PaymentHandler {
	return &PaymentHandler{pool: pool, newStore: newStore, hub: hub}
}

// RegisterRoutes registers payment endpoints on an outlet-scoped router.
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/{id}/payments", h.Settle)
}

type settleRequest struct {
	PaymentMethod  string `json:"payment_method"`
	ReceivedAmount string `json:"received_amount"`
}

type settleResponse struct {
	Order   model.Order   `json:"order"`
	Payment model.Payment `json:"payment"`
}

// Settle handles POST /outlets/{oid}/orders/{id}/payments.
// The amount charged is the order's stored total_amount, never a value
// from the request; the request only says how the customer paid and how
// much cash they handed over.
func (h *PaymentHandler) Settle(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}
	claims := middleware.ClaimsFromContext(r.Context())

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payment_method"})
		return
	}

	// Begin the transaction BEFORE reading order state to prevent TOCTOU
	// races: two concurrent settlements could both see WaitingForPayment
	// outside a tx and each insert a payment row.
	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx for settlement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context())

	txStore := h.newStore(tx)

	// Lock the order row (FOR NO KEY UPDATE) to serialize settlements.
	row, err := txStore.GetOrderForUpdate(r.Context(), database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for settlement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if status.IsPaidOrCompleted(row.Status) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order already settled"})
		return
	}
	if status.IsCancelled(row.Status) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order is cancelled"})
		return
	}

	order := service.OrderToModel(row)

	// Non-cash methods settle exactly; cash may come in over the total.
	received := order.TotalAmount
	if req.PaymentMethod == enum.PaymentMethodCash {
		received = money.Parse(req.ReceivedAmount)
		if received.LessThan(order.TotalAmount) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "received_amount is less than total"})
			return
		}
	}

	totals := money.Settlement(&order, received)

	payment, err := txStore.CreatePayment(r.Context(), database.CreatePaymentParams{
		OrderID:        orderID,
		PaymentMethod:  req.PaymentMethod,
		Amount:         decimalToNumeric(totals.Total),
		ReceivedAmount: decimalToNumeric(received),
		ChangeAmount:   decimalToNumeric(totals.Change),
		ProcessedBy:    claims.UserID,
	})
	if err != nil {
		log.Printf("ERROR: create payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Delivery orders finish at settlement; the rider takes the food.
	finalStatus := enum.OrderStatusPaid
	if row.OrderType == enum.OrderTypeDelivery {
		finalStatus = enum.OrderStatusCompleted
	}

	settled, err := txStore.SettleOrder(r.Context(), database.SettleOrderParams{
		ID:             orderID,
		OutletID:       outletID,
		Status:         finalStatus,
		ReceivedAmount: decimalToNumeric(received),
		ChangeAmount:   decimalToNumeric(totals.Change),
	})
	if err != nil {
		log.Printf("ERROR: settle order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit settlement: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := settleResponse{
		Order:   service.OrderToModel(settled),
		Payment: service.PaymentToModel(payment),
	}
	h.hub.BroadcastToOutlet(outletID, ws.NewEvent(ws.EventOrderSettled, resp.Order))
	writeJSON(w, http.StatusOK, resp)
}

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodPromptPay, enum.PaymentMethodTransfer:
		return true
	}
	return false
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
