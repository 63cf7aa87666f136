package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
)

// mockTransitionStore implements TransitionStore with configurable behavior.
type mockTransitionStore struct {
	getOrderFn              func(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	listOrderItemsFn        func(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	updateOrderStatusFn     func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	updateOrderItemStatusFn func(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	cancelOrderFn           func(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
}

func (m *mockTransitionStore) GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	return m.getOrderFn(ctx, arg)
}
func (m *mockTransitionStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.listOrderItemsFn(ctx, orderID)
}
func (m *mockTransitionStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	return m.updateOrderStatusFn(ctx, arg)
}
func (m *mockTransitionStore) UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
	return m.updateOrderItemStatusFn(ctx, arg)
}
func (m *mockTransitionStore) CancelOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
	return m.cancelOrderFn(ctx, arg)
}

func activeOrder(id, outletID uuid.UUID, orderStatus string) database.Order {
	return database.Order{ID: id, OutletID: outletID, Status: orderStatus}
}

func TestReopenForEdit_MarksItemsServedThenReopens(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	cancelled := uuid.New()

	var (
		mu      sync.Mutex
		updated []uuid.UUID
	)
	var orderStatusSet string

	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(orderID, outletID, enum.OrderStatusWaitingForPayment), nil
		},
		listOrderItemsFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{
				{ID: itemA, Status: enum.ItemStatusCooking},
				{ID: itemB, Status: enum.ItemStatusPending},
				{ID: cancelled, Status: "cancelled"}, // legacy casing, must be skipped
			}, nil
		},
		updateOrderItemStatusFn: func(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
			if arg.Status != enum.ItemStatusServed {
				t.Errorf("item status = %q, want %q", arg.Status, enum.ItemStatusServed)
			}
			mu.Lock()
			updated = append(updated, arg.ID)
			mu.Unlock()
			return database.OrderItem{ID: arg.ID, Status: arg.Status}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
			mu.Lock()
			if len(updated) != 2 {
				t.Errorf("order reopened before all items marked: %d updated", len(updated))
			}
			mu.Unlock()
			orderStatusSet = arg.Status
			return activeOrder(orderID, outletID, arg.Status), nil
		},
	}

	svc := NewTransitionService(store)
	out, err := svc.ReopenForEdit(context.Background(), orderID, outletID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orderStatusSet != enum.OrderStatusPending {
		t.Errorf("order status = %q, want %q", orderStatusSet, enum.OrderStatusPending)
	}
	if out.Status != enum.OrderStatusPending {
		t.Errorf("returned order status = %q, want %q", out.Status, enum.OrderStatusPending)
	}

	sort.Slice(updated, func(i, j int) bool { return updated[i].String() < updated[j].String() })
	want := []uuid.UUID{itemA, itemB}
	sort.Slice(want, func(i, j int) bool { return want[i].String() < want[j].String() })
	if len(updated) != 2 || updated[0] != want[0] || updated[1] != want[1] {
		t.Errorf("updated items = %v, want %v", updated, want)
	}
}

func TestReopenForEdit_PartialItemFailure(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()
	bad := uuid.New()
	boom := errors.New("row gone")

	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(orderID, outletID, enum.OrderStatusWaitingForPayment), nil
		},
		listOrderItemsFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{
				{ID: uuid.New(), Status: enum.ItemStatusCooking},
				{ID: bad, Status: enum.ItemStatusCooking},
			}, nil
		},
		updateOrderItemStatusFn: func(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
			if arg.ID == bad {
				return database.OrderItem{}, boom
			}
			return database.OrderItem{ID: arg.ID, Status: arg.Status}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
			t.Error("order must not be reopened when item updates failed")
			return database.Order{}, nil
		},
	}

	svc := NewTransitionService(store)
	_, err := svc.ReopenForEdit(context.Background(), orderID, outletID)
	var partial *PartialTransitionError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialTransitionError, got: %v", err)
	}
	if partial.ItemsFailed != 1 {
		t.Errorf("items failed = %d, want 1", partial.ItemsFailed)
	}
	if partial.FailedStep != "mark items served" {
		t.Errorf("failed step = %q", partial.FailedStep)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause, got: %v", err)
	}
}

func TestReopenForEdit_OrderUpdateFailureAfterItems(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()
	boom := errors.New("deadlock")

	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(orderID, outletID, enum.OrderStatusWaitingForPayment), nil
		},
		listOrderItemsFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{{ID: uuid.New(), Status: enum.ItemStatusCooking}}, nil
		},
		updateOrderItemStatusFn: func(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
			return database.OrderItem{ID: arg.ID, Status: arg.Status}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
			return database.Order{}, boom
		},
	}

	svc := NewTransitionService(store)
	_, err := svc.ReopenForEdit(context.Background(), orderID, outletID)
	var partial *PartialTransitionError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialTransitionError, got: %v", err)
	}
	if partial.FailedStep != "reopen order" {
		t.Errorf("failed step = %q, want reopen order", partial.FailedStep)
	}
}

func TestReopenForEdit_SettledOrderRejected(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()

	for _, s := range []string{enum.OrderStatusPaid, enum.OrderStatusCompleted, "cancelled"} {
		store := &mockTransitionStore{
			getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
				return activeOrder(orderID, outletID, s), nil
			},
		}
		svc := NewTransitionService(store)
		_, err := svc.ReopenForEdit(context.Background(), orderID, outletID)
		if !errors.Is(err, ErrOrderNotEditable) {
			t.Errorf("status %q: expected ErrOrderNotEditable, got: %v", s, err)
		}
	}
}

func TestReopenForEdit_OrderNotFound(t *testing.T) {
	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return database.Order{}, pgx.ErrNoRows
		},
	}
	svc := NewTransitionService(store)
	_, err := svc.ReopenForEdit(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got: %v", err)
	}
}

func TestCheckout_MovesToWaitingForPayment(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()

	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(orderID, outletID, enum.OrderStatusCooking), nil
		},
		updateOrderStatusFn: func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
			return activeOrder(orderID, outletID, arg.Status), nil
		},
	}

	svc := NewTransitionService(store)
	out, err := svc.Checkout(context.Background(), orderID, outletID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != enum.OrderStatusWaitingForPayment {
		t.Errorf("status = %q, want %q", out.Status, enum.OrderStatusWaitingForPayment)
	}
}

func TestCheckout_PaidOrderRejected(t *testing.T) {
	store := &mockTransitionStore{
		getOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(uuid.New(), uuid.New(), enum.OrderStatusPaid), nil
		},
	}
	svc := NewTransitionService(store)
	_, err := svc.Checkout(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("expected ErrOrderNotEditable, got: %v", err)
	}
}

func TestCancel_GuardedByStore(t *testing.T) {
	store := &mockTransitionStore{
		cancelOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return database.Order{}, pgx.ErrNoRows
		},
	}
	svc := NewTransitionService(store)
	_, err := svc.Cancel(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrOrderNotEditable) {
		t.Fatalf("expected ErrOrderNotEditable, got: %v", err)
	}
}

func TestCancel_ReturnsCancelledOrder(t *testing.T) {
	orderID := uuid.New()
	outletID := uuid.New()
	store := &mockTransitionStore{
		cancelOrderFn: func(ctx context.Context, arg database.GetOrderParams) (database.Order, error) {
			return activeOrder(orderID, outletID, enum.OrderStatusCancelled), nil
		},
	}
	svc := NewTransitionService(store)
	out, err := svc.Cancel(context.Background(), orderID, outletID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Status != enum.OrderStatusCancelled {
		t.Errorf("status = %q, want %q", out.Status, enum.OrderStatusCancelled)
	}
}
