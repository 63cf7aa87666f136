package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/status"
)

// TransitionStore defines the DB methods needed for lifecycle moves.
type TransitionStore interface {
	GetOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	CancelOrder(ctx context.Context, arg database.GetOrderParams) (database.Order, error)
}

// PartialTransitionError reports a reopen that only half-landed. The
// updates that succeeded stay applied; callers surface the failed step
// so staff can retry instead of silently losing kitchen state.
type PartialTransitionError struct {
	OrderID     uuid.UUID
	FailedStep  string
	ItemsFailed int
	Err         error
}

func (e *PartialTransitionError) Error() string {
	return fmt.Sprintf("order %s: partial transition at %s (%d items failed): %v",
		e.OrderID, e.FailedStep, e.ItemsFailed, e.Err)
}

func (e *PartialTransitionError) Unwrap() error { return e.Err }

// TransitionService moves orders through their lifecycle.
type TransitionService struct {
	store TransitionStore
}

// NewTransitionService creates a new TransitionService.
func NewTransitionService(store TransitionStore) *TransitionService {
	return &TransitionService{store: store}
}

// ReopenForEdit takes an order out of the payment queue so the cashier
// can change it. Every non-cancelled item is marked Served first (the
// kitchen already produced them), concurrently since the updates are
// independent, then the order itself drops back to Pending. There is no
// rollback: a failure after some items updated returns a
// PartialTransitionError naming the step that broke.
func (s *TransitionService) ReopenForEdit(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error) {
	order, err := s.store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	if status.IsPaidOrCompleted(order.Status) || status.IsCancelled(order.Status) {
		return database.Order{}, ErrOrderNotEditable
	}

	items, err := s.store.ListOrderItemsByOrder(ctx, orderID)
	if err != nil {
		return database.Order{}, fmt.Errorf("list order items: %w", err)
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
		first  error
	)
	for _, item := range items {
		if status.IsCancelled(item.Status) {
			continue
		}
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := s.store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
				ID:     id,
				Status: enum.ItemStatusServed,
			})
			if err != nil {
				mu.Lock()
				failed++
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		}(item.ID)
	}
	wg.Wait()

	if failed > 0 {
		return database.Order{}, &PartialTransitionError{
			OrderID:     orderID,
			FailedStep:  "mark items served",
			ItemsFailed: failed,
			Err:         first,
		}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:       orderID,
		OutletID: outletID,
		Status:   enum.OrderStatusPending,
	})
	if err != nil {
		return database.Order{}, &PartialTransitionError{
			OrderID:    orderID,
			FailedStep: "reopen order",
			Err:        err,
		}
	}
	return updated, nil
}

// Checkout moves an active order into the payment queue.
func (s *TransitionService) Checkout(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error) {
	order, err := s.store.GetOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	if status.IsPaidOrCompleted(order.Status) || status.IsCancelled(order.Status) {
		return database.Order{}, ErrOrderNotEditable
	}
	return s.store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:       orderID,
		OutletID: outletID,
		Status:   enum.OrderStatusWaitingForPayment,
	})
}

// Cancel voids an active order. The store refuses settled or already
// cancelled orders; that refusal surfaces as ErrOrderNotEditable.
func (s *TransitionService) Cancel(ctx context.Context, orderID, outletID uuid.UUID) (database.Order, error) {
	order, err := s.store.CancelOrder(ctx, database.GetOrderParams{ID: orderID, OutletID: outletID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotEditable
		}
		return database.Order{}, fmt.Errorf("cancel order: %w", err)
	}
	return order, nil
}
