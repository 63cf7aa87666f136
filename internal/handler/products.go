package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/service"
)

// ProductStore defines the database methods needed by product handlers.
type ProductStore interface {
	ListProductsByOutlet(ctx context.Context, outletID uuid.UUID) ([]database.Product, error)
}

// ProductHandler serves the menu to terminals.
type ProductHandler struct {
	store ProductStore
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(store ProductStore) *ProductHandler {
	return &ProductHandler{store: store}
}

// RegisterRoutes registers product endpoints on an outlet-scoped router.
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

type productListResponse struct {
	Products []model.Product `json:"products"`
}

// List handles GET /outlets/{oid}/products. Only active products are
// returned; both price columns come along so the terminal can preview
// delivery pricing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	outletID, _, ok := outletAndClaims(w, r)
	if !ok {
		return
	}

	rows, err := h.store.ListProductsByOutlet(r.Context(), outletID)
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	products := make([]model.Product, len(rows))
	for i, row := range rows {
		products[i] = service.ProductToModel(row)
	}
	writeJSON(w, http.StatusOK, productListResponse{Products: products})
}
