package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/baansom-pos/api/internal/database"
)

// ReportStore defines the database methods needed by report handlers.
type ReportStore interface {
	GetDailySales(ctx context.Context, arg database.GetDailySalesParams) ([]database.GetDailySalesRow, error)
	GetChannelSummary(ctx context.Context, arg database.GetChannelSummaryParams) ([]database.GetChannelSummaryRow, error)
}

// ReportHandler serves sales aggregates to the back office.
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// RegisterRoutes registers report endpoints on an outlet-scoped router.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily", h.Daily)
	r.Get("/channels", h.Channels)
}

type dailySalesRow struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Gross      decimal.Decimal `json:"gross"`
	Discount   decimal.Decimal `json:"discount"`
	Net        decimal.Decimal `json:"net"`
}

type channelSummaryRow struct {
	OrderType  string          `json:"order_type"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// parseRange reads start/end query params (YYYY-MM-DD). Defaults to the
// last 7 days; end is exclusive.
func parseRange(r *http.Request) (time.Time, time.Time, bool) {
	end := time.Now().Truncate(24 * time.Hour).Add(24 * time.Hour)
	start := end.AddDate(0, 0, -7)

	if s := r.URL.Query().Get("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, false
		}
		start = t
	}
	if s := r.URL.Query().Get("end"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return start, end, false
		}
		end = t.AddDate(0, 0, 1)
	}
	return start, end, true
}

// Daily handles GET /outlets/{oid}/reports/daily.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	outletID, _, ok := outletAndClaims(w, r)
	if !ok {
		return
	}
	start, end, ok := parseRange(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	rows, err := h.store.GetDailySales(r.Context(), database.GetDailySalesParams{
		OutletID:  outletID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: daily sales report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dailySalesRow, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesRow{
			Date:       row.SaleDate.Time.Format("2006-01-02"),
			OrderCount: row.OrderCount,
			Gross:      numericToDecimal(row.Gross),
			Discount:   numericToDecimal(row.Discount),
			Net:        numericToDecimal(row.Net),
		}
	}
	writeJSON(w, http.StatusOK, map[string][]dailySalesRow{"days": resp})
}

// Channels handles GET /outlets/{oid}/reports/channels.
func (h *ReportHandler) Channels(w http.ResponseWriter, r *http.Request) {
	outletID, _, ok := outletAndClaims(w, r)
	if !ok {
		return
	}
	start, end, ok := parseRange(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	rows, err := h.store.GetChannelSummary(r.Context(), database.GetChannelSummaryParams{
		OutletID:  outletID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		log.Printf("ERROR: channel summary report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]channelSummaryRow, len(rows))
	for i, row := range rows {
		resp[i] = channelSummaryRow{
			OrderType:  row.OrderType,
			OrderCount: row.OrderCount,
			Revenue:    numericToDecimal(row.Revenue),
		}
	}
	writeJSON(w, http.StatusOK, map[string][]channelSummaryRow{"channels": resp})
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
