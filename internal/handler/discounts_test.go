package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/enum"
	"github.com/baansom-pos/api/internal/handler"
	"github.com/baansom-pos/api/internal/middleware"
)

type mockDiscountSource struct {
	activeFn func(ctx context.Context) ([]database.Discount, error)
}

func (m *mockDiscountSource) Active(ctx context.Context) ([]database.Discount, error) {
	return m.activeFn(ctx)
}

func setupDiscountRouter(source *mockDiscountSource) *chi.Mux {
	h := handler.NewDiscountHandler(source)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	h.RegisterRoutes(r)
	return r
}

func TestDiscountList(t *testing.T) {
	claims := testClaims(uuid.New())

	source := &mockDiscountSource{
		activeFn: func(ctx context.Context) ([]database.Discount, error) {
			return []database.Discount{{
				ID:     uuid.New(),
				Name:   "Lunch Set 10%",
				Type:   enum.DiscountTypePercentage,
				Amount: testNumeric("10.00"),
				Active: true,
			}}, nil
		},
	}
	router := setupDiscountRouter(source)

	rr := doAuthRequest(t, router, "GET", "/discounts", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeBody(t, rr)
	discounts := resp["discounts"].([]interface{})
	if len(discounts) != 1 {
		t.Fatalf("discounts: got %d, want 1", len(discounts))
	}
	d := discounts[0].(map[string]interface{})
	if d["type"] != enum.DiscountTypePercentage {
		t.Errorf("type: got %v, want Percentage", d["type"])
	}
	if d["amount"] != "10" {
		t.Errorf("amount: got %v, want 10", d["amount"])
	}
}

func TestDiscountList_SourceError(t *testing.T) {
	claims := testClaims(uuid.New())

	source := &mockDiscountSource{
		activeFn: func(ctx context.Context) ([]database.Discount, error) {
			return nil, errors.New("database unavailable")
		},
	}
	router := setupDiscountRouter(source)

	rr := doAuthRequest(t, router, "GET", "/discounts", nil, claims)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}
