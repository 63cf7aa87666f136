package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/baansom-pos/api/internal/auth"
	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/grouping"
	"github.com/baansom-pos/api/internal/middleware"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/nav"
	"github.com/baansom-pos/api/internal/service"
	"github.com/baansom-pos/api/internal/status"
	"github.com/baansom-pos/api/internal/ws"
)

// OrderCreator defines the service methods needed to create orders.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// OrderLifecycle defines the transition methods order handlers call.
// Satisfied by *service.TransitionService.
type OrderLifecycle interface {
	ReopenForEdit(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error)
	Checkout(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error)
	Cancel(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries.
type OrderStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListPaymentsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.Payment, error)
}

// Broadcaster pushes events to the outlet's connected terminals.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToOutlet(outletID uuid.UUID, event ws.Event)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc       OrderCreator
	lifecycle OrderLifecycle
	store     OrderStore
	hub       Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderCreator, lifecycle OrderLifecycle, store OrderStore, hub Broadcaster) *OrderHandler {
	return &OrderHandler{svc: svc, lifecycle: lifecycle, store: store, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted inside an outlet-scoped subrouter: /outlets/{oid}/orders
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/next", h.Next)
	r.Get("/{id}/receipt", h.Receipt)
	r.Post("/{id}/checkout", h.Checkout)
	r.Post("/{id}/reopen", h.Reopen)
	r.Delete("/{id}", h.Cancel)
}

// --- Request / Response types ---

type createOrderRequest struct {
	OrderType    string                   `json:"order_type"`
	TableID      string                   `json:"table_id"`
	DeliveryID   string                   `json:"delivery_id"`
	DeliveryCode string                   `json:"delivery_code"`
	DiscountID   string                   `json:"discount_id"`
	Items        []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	ProductID string         `json:"product_id"`
	Quantity  int32          `json:"quantity"`
	Notes     string         `json:"notes"`
	Details   []model.Detail `json:"details"`
}

// orderListResponse wraps a list of orders with pagination metadata.
type orderListResponse struct {
	Orders []model.Order `json:"orders"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type nextResponse struct {
	Destination nav.Destination `json:"destination"`
}

// receiptItem is a grouped row plus the display label and color the
// terminal prints for the row's status. Served rows read "Packed" on
// TakeAway/Delivery receipts, so the label depends on the order's channel.
type receiptItem struct {
	grouping.GroupedItem
	StatusText  string `json:"status_text"`
	StatusColor string `json:"status_color"`
}

type receiptResponse struct {
	Order model.Order   `json:"order"`
	Items []receiptItem `json:"items"`
}

// --- Handlers ---

// Create handles POST /outlets/{oid}/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	outletID, claims, ok := outletAndClaims(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.OrderType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_type is required"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": formatItemError(i, "product_id is required")})
			return
		}
		if item.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": formatItemError(i, "quantity must be > 0")})
			return
		}
	}

	svcItems := make([]service.CreateOrderItemRequest, len(req.Items))
	for i, item := range req.Items {
		svcItems[i] = service.CreateOrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
			Details:   item.Details,
		}
	}

	result, err := h.svc.CreateOrder(r.Context(), service.CreateOrderRequest{
		OutletID:     outletID,
		CreatedBy:    claims.UserID,
		OrderType:    req.OrderType,
		TableID:      req.TableID,
		DeliveryID:   req.DeliveryID,
		DeliveryCode: req.DeliveryCode,
		DiscountID:   req.DiscountID,
		Items:        svcItems,
	})
	if err != nil {
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := service.OrderToModel(result.Order)
	resp.Items = make([]model.LineItem, len(result.Items))
	for i, item := range result.Items {
		resp.Items[i] = service.ItemToModel(item)
	}

	h.hub.BroadcastToOutlet(outletID, ws.NewEvent(ws.EventOrderCreated, resp))
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /outlets/{oid}/orders.
// Optional filters: status, type (both matched case-insensitively so the
// lowercase statuses of migrated orders still land in the right bucket),
// plus limit/offset pagination.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	outletID, _, ok := outletAndClaims(w, r)
	if !ok {
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}
	// Atoi is 64-bit; an unchecked cast below would wrap huge offsets
	// negative and Postgres rejects a negative OFFSET.
	if offset > math.MaxInt32 {
		offset = math.MaxInt32
	}

	params := database.ListOrdersParams{
		OutletID: outletID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		params.Status = pgtype.Text{String: s, Valid: true}
	}
	if s := r.URL.Query().Get("type"); s != "" {
		params.OrderType = pgtype.Text{String: s, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]model.Order, len(orders))
	for i, o := range orders {
		resp[i] = service.OrderToModel(o)
	}

	writeJSON(w, http.StatusOK, orderListResponse{Orders: resp, Limit: limit, Offset: offset})
}

// Get handles GET /outlets/{oid}/orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	order, ok := h.loadOrder(w, r, orderID, outletID, true)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Next handles GET /outlets/{oid}/orders/{id}/next. It tells the
// terminal which screen to show for this order: payment, delivery
// handoff, detail, or back to the channel listing for cancelled orders.
func (h *OrderHandler) Next(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	row, err := h.store.GetOrder(r.Context(), database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order for next: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, nextResponse{
		Destination: nav.Resolve(row.OrderType, row.Status),
	})
}

// Receipt handles GET /outlets/{oid}/orders/{id}/receipt. Order lines
// are merged for display: same product, same modifiers, same note, same
// status collapse into one row with a summed quantity.
func (h *OrderHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	order, ok := h.loadOrder(w, r, orderID, outletID, false)
	if !ok {
		return
	}

	grouped := grouping.GroupItems(order.Items)
	items := make([]receiptItem, len(grouped))
	for i, g := range grouped {
		items[i] = receiptItem{
			GroupedItem: g,
			StatusText:  status.Text(g.Status, order.OrderType),
			StatusColor: status.Color(g.Status),
		}
	}

	writeJSON(w, http.StatusOK, receiptResponse{
		Order: order,
		Items: items,
	})
}

// Checkout handles POST /outlets/{oid}/orders/{id}/checkout.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	row, err := h.lifecycle.Checkout(r.Context(), orderID, outletID)
	if err != nil {
		h.writeLifecycleError(w, "checkout order", err)
		return
	}

	resp := service.OrderToModel(row)
	h.hub.BroadcastToOutlet(outletID, ws.NewEvent(ws.EventOrderStatusChanged, resp))
	writeJSON(w, http.StatusOK, resp)
}

// Reopen handles POST /outlets/{oid}/orders/{id}/reopen. It pulls an
// order back from the payment queue for editing. The items already
// produced are marked Served; a half-applied reopen reports 502 so the
// terminal retries instead of showing stale state.
func (h *OrderHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	row, err := h.lifecycle.ReopenForEdit(r.Context(), orderID, outletID)
	if err != nil {
		var partial *service.PartialTransitionError
		if errors.As(err, &partial) {
			log.Printf("ERROR: reopen order %s: %v", orderID, err)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "order partially reopened, retry"})
			return
		}
		h.writeLifecycleError(w, "reopen order", err)
		return
	}

	resp := service.OrderToModel(row)
	h.hub.BroadcastToOutlet(outletID, ws.NewEvent(ws.EventOrderStatusChanged, resp))
	writeJSON(w, http.StatusOK, resp)
}

// Cancel handles DELETE /outlets/{oid}/orders/{id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	outletID, orderID, ok := outletAndOrderID(w, r)
	if !ok {
		return
	}

	row, err := h.lifecycle.Cancel(r.Context(), orderID, outletID)
	if err != nil {
		h.writeLifecycleError(w, "cancel order", err)
		return
	}

	resp := service.OrderToModel(row)
	h.hub.BroadcastToOutlet(outletID, ws.NewEvent(ws.EventOrderCancelled, resp))
	writeJSON(w, http.StatusOK, resp)
}

// --- Helpers ---

func outletAndClaims(w http.ResponseWriter, r *http.Request) (uuid.UUID, *auth.Claims, bool) {
	outletID, err := uuid.Parse(chi.URLParam(r, "oid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid outlet ID"})
		return uuid.Nil, nil, false
	}
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return uuid.Nil, nil, false
	}
	return outletID, claims, true
}

func outletAndOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	outletID, _, ok := outletAndClaims(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return uuid.Nil, uuid.Nil, false
	}
	return outletID, orderID, true
}

// loadOrder fetches an order with its items (and payments for settled
// views) and converts everything to the wire shape.
func (h *OrderHandler) loadOrder(w http.ResponseWriter, r *http.Request, orderID, outletID uuid.UUID, withPayments bool) (model.Order, bool) {
	row, err := h.store.GetOrder(r.Context(), database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return model.Order{}, false
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return model.Order{}, false
	}

	order := service.OrderToModel(row)

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return model.Order{}, false
	}
	order.Items = make([]model.LineItem, len(items))
	for i, item := range items {
		order.Items[i] = service.ItemToModel(item)
	}

	if withPayments {
		payments, err := h.store.ListPaymentsByOrder(r.Context(), orderID)
		if err != nil {
			log.Printf("ERROR: list payments: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return model.Order{}, false
		}
		order.Payments = make([]model.Payment, len(payments))
		for i, p := range payments {
			order.Payments[i] = service.PaymentToModel(p)
		}
	}

	return order, true
}

func (h *OrderHandler) writeLifecycleError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
	case errors.Is(err, service.ErrOrderNotEditable):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "order can no longer be changed"})
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func formatItemError(idx int, msg string) string {
	return "items[" + strconv.Itoa(idx) + "]: " + msg
}

// isValidationError checks if the error is a known validation error
// from the service layer that should result in 400 Bad Request.
func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmptyItems) ||
		errors.Is(err, service.ErrInvalidOrderType) ||
		errors.Is(err, service.ErrInvalidQuantity) ||
		errors.Is(err, service.ErrProductNotFound) ||
		errors.Is(err, service.ErrDiscountNotFound) ||
		errors.Is(err, service.ErrDiscountInactive)
}
