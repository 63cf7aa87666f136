package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/money"
	"github.com/baansom-pos/api/internal/payload"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems       = errors.New("items are required")
	ErrInvalidOrderType = errors.New("invalid order_type")
	ErrInvalidQuantity  = errors.New("quantity must be > 0")
	ErrProductNotFound  = errors.New("product not found in outlet")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrDiscountInactive = errors.New("discount is not active")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotEditable = errors.New("order can no longer be changed")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to create orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetNextOrderNumber(ctx context.Context, outletID uuid.UUID) (int32, error)
	GetProductForOrder(ctx context.Context, arg database.GetProductForOrderParams) (database.Product, error)
	GetDiscount(ctx context.Context, id uuid.UUID) (database.Discount, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	OutletID     uuid.UUID
	CreatedBy    uuid.UUID
	OrderType    string
	TableID      string
	DeliveryID   string
	DeliveryCode string
	DiscountID   string
	Items        []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single cart line in the order.
type CreateOrderItemRequest struct {
	ProductID string
	Quantity  int32
	Notes     string
	Details   []model.Detail
}

// CreateOrderResult is the full created order with items.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService handles order business logic.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// CreateOrder validates, prices, and creates an order atomically.
// Retries up to maxOrderNumberRetries times on order_no unique constraint
// violations (race condition where concurrent transactions get the same MAX).
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	if err := validateOrderType(req.OrderType); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		result, err := s.createOrderTx(ctx, req)
		if err == nil {
			return result, nil
		}
		if isOrderNumberConflict(err) {
			lastErr = err
			continue
		}
		return nil, err
	}
	return nil, lastErr
}

// isOrderNumberConflict checks if the error is a unique constraint violation
// on the order number (pgconn error code 23505).
func isOrderNumberConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_outlet_id_order_no_key"
	}
	return false
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	nextNum, err := store.GetNextOrderNumber(ctx, req.OutletID)
	if err != nil {
		return nil, fmt.Errorf("get next order number: %w", err)
	}
	orderNo := fmt.Sprintf("BS-%03d", nextNum)

	// Build the cart from live product rows so prices are always the
	// current menu prices, never client-supplied.
	cart := make([]model.CartItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item[%d]: %w", i, ErrInvalidQuantity)
		}
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: invalid product_id: %w", i, ErrProductNotFound)
		}
		product, err := store.GetProductForOrder(ctx, database.GetProductForOrderParams{
			ID:       productID,
			OutletID: req.OutletID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("item[%d]: %w", i, ErrProductNotFound)
			}
			return nil, fmt.Errorf("item[%d]: get product: %w", i, err)
		}
		cart = append(cart, model.CartItem{
			Product: model.Product{
				ID:            product.ID,
				OutletID:      product.OutletID,
				Name:          product.Name,
				Price:         numericToDecimal(product.Price),
				DeliveryPrice: numericToDecimal(product.DeliveryPrice),
			},
			Quantity: item.Quantity,
			Notes:    item.Notes,
			Details:  item.Details,
		})
	}

	subtotal := decimal.Zero
	for _, c := range cart {
		subtotal = subtotal.Add(money.ItemTotal(payload.PriceFor(c.Product, req.OrderType), c.Quantity, c.Details))
	}

	// Resolve the order-level discount, if any.
	discountAmount := decimal.Zero
	total := subtotal
	var discountID *uuid.UUID
	if req.DiscountID != "" {
		did, err := uuid.Parse(req.DiscountID)
		if err != nil {
			return nil, ErrDiscountNotFound
		}
		disc, err := store.GetDiscount(ctx, did)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrDiscountNotFound
			}
			return nil, fmt.Errorf("get discount: %w", err)
		}
		if !disc.Active {
			return nil, ErrDiscountInactive
		}
		discountAmount, total = money.ApplyDiscount(subtotal, disc.Type, numericToDecimal(disc.Amount))
		discountID = &did
	}

	refs := payload.Refs{
		OrderNo:      orderNo,
		DiscountID:   discountID,
		DeliveryCode: req.DeliveryCode,
	}
	if req.TableID != "" {
		tid, err := uuid.Parse(req.TableID)
		if err != nil {
			return nil, fmt.Errorf("invalid table_id: %w", err)
		}
		refs.TableID = &tid
	}
	if req.DeliveryID != "" {
		did, err := uuid.Parse(req.DeliveryID)
		if err != nil {
			return nil, fmt.Errorf("invalid delivery_id: %w", err)
		}
		refs.DeliveryID = &did
	}

	body := payload.Build(cart, req.OrderType, payload.Totals{
		SubTotal:       subtotal,
		DiscountAmount: discountAmount,
		TotalAmount:    total,
	}, refs)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OutletID:       req.OutletID,
		OrderNo:        body.OrderNo,
		OrderType:      body.OrderType,
		Status:         body.Status,
		SubTotal:       decimalToNumeric(body.SubTotal),
		DiscountAmount: decimalToNumeric(body.DiscountAmount),
		Vat:            decimalToNumeric(body.VAT),
		TotalAmount:    decimalToNumeric(body.TotalAmount),
		ReceivedAmount: decimalToNumeric(body.ReceivedAmount),
		ChangeAmount:   decimalToNumeric(body.ChangeAmount),
		TableID:        uuidPtrToPg(body.TableID),
		DeliveryID:     uuidPtrToPg(body.DeliveryID),
		DeliveryCode:   textOrNull(body.DeliveryCode),
		DiscountID:     uuidPtrToPg(body.DiscountID),
		CreatedBy:      req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(body.Items))
	for i, line := range body.Items {
		details, err := marshalDetails(line.Details)
		if err != nil {
			return nil, fmt.Errorf("item[%d]: encode details: %w", i, err)
		}
		created, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:        order.ID,
			ProductID:      line.ProductID,
			ProductName:    cart[i].Product.Name,
			Quantity:       line.Quantity,
			Price:          decimalToNumeric(line.Price),
			TotalPrice:     decimalToNumeric(line.TotalPrice),
			DiscountAmount: decimalToNumeric(line.DiscountAmount),
			Notes:          textOrNull(line.Notes),
			Status:         line.Status,
			Details:        details,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: items}, nil
}

// --- Helpers ---

func validateOrderType(s string) error {
	switch s {
	case enum.OrderTypeDineIn, enum.OrderTypeTakeAway, enum.OrderTypeDelivery:
		return nil
	}
	return ErrInvalidOrderType
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func uuidPtrToPg(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
