package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baansom-pos/api/internal/database"
	"github.com/baansom-pos/api/internal/model"
	"github.com/baansom-pos/api/internal/service"
)

// DiscountSource serves the active discount list. Satisfied by
// *service.DiscountCache.
type DiscountSource interface {
	Active(ctx context.Context) ([]database.Discount, error)
}

// DiscountHandler serves discounts to terminals.
type DiscountHandler struct {
	source DiscountSource
}

// NewDiscountHandler creates a new DiscountHandler.
func NewDiscountHandler(source DiscountSource) *DiscountHandler {
	return &DiscountHandler{source: source}
}

// RegisterRoutes registers discount endpoints.
func (h *DiscountHandler) RegisterRoutes(r chi.Router) {
	r.Get("/discounts", h.List)
}

type discountListResponse struct {
	Discounts []model.Discount `json:"discounts"`
}

// List handles GET /discounts. The list is cached; a discount toggled
// in the back office shows up within the cache TTL.
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.source.Active(r.Context())
	if err != nil {
		log.Printf("ERROR: list discounts: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	discounts := make([]model.Discount, len(rows))
	for i, row := range rows {
		discounts[i] = service.DiscountToModel(row)
	}
	writeJSON(w, http.StatusOK, discountListResponse{Discounts: discounts})
}
