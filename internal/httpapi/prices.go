package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"pricetrack/internal/analytics"
	"pricetrack/internal/catalog"
	"pricetrack/internal/export"
)

type setPriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

type setPriceResponse struct {
	Product catalog.Product `json:"product"`
	Alerts  []catalog.Alert `json:"alerts"`
}

// SetPrice handles PUT /api/products/{id}/prices/{supplierId}.
func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var req setPriceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Price == nil {
		respondError(w, http.StatusBadRequest, "price is required")
		return
	}

	update, err := h.store.UpdateProductPrice(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "supplierId"), *req.Price)
	if err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	alerts := update.Alerts
	if alerts == nil {
		alerts = []catalog.Alert{}
	}
	respondJSON(w, http.StatusOK, setPriceResponse{Product: update.Product, Alerts: alerts})
}

// PriceComparison handles GET /api/products/{id}/comparison.
func (h *Handler) PriceComparison(w http.ResponseWriter, r *http.Request) {
	entries, ok := analytics.PriceComparison(h.store.Snapshot(), chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if entries == nil {
		entries = []analytics.ComparisonEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// PriceHistory handles GET /api/products/{id}/history/{supplierId}.
func (h *Handler) PriceHistory(w http.ResponseWriter, r *http.Request) {
	history, ok := analytics.PriceHistory(h.store.Snapshot(), chi.URLParam(r, "id"), chi.URLParam(r, "supplierId"))
	if !ok {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if history == nil {
		history = []catalog.PriceObservation{}
	}
	respondJSON(w, http.StatusOK, history)
}

// ListAlerts handles GET /api/alerts?unread=true.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	alerts := analytics.SortedAlerts(h.store.Snapshot(), unread)
	if alerts == nil {
		alerts = []catalog.Alert{}
	}
	respondJSON(w, http.StatusOK, alerts)
}

// MarkAlertRead handles POST /api/alerts/{id}/read.
func (h *Handler) MarkAlertRead(w http.ResponseWriter, r *http.Request) {
	if err := h.store.MarkAlertAsRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteAlert handles DELETE /api/alerts/{id}.
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAlert(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Savings handles GET /api/analytics/savings.
func (h *Handler) Savings(w http.ResponseWriter, r *http.Request) {
	opps := analytics.SavingsOpportunities(h.store.Snapshot())
	if opps == nil {
		opps = []analytics.Opportunity{}
	}
	respondJSON(w, http.StatusOK, opps)
}

// Stats handles GET /api/analytics/stats?timeframe=.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	tf, ok := h.timeframe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.PriceChangeStats(h.store.Snapshot(), tf, h.now()))
}

// Trends handles GET /api/analytics/trends?timeframe=.
func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	tf, ok := h.timeframe(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, analytics.PriceTrendsSeries(h.store.Snapshot(), tf, h.now()))
}

// RecentUpdates handles GET /api/analytics/recent?limit=.
func (h *Handler) RecentUpdates(w http.ResponseWriter, r *http.Request) {
	limit := analytics.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	updates := analytics.RecentPriceUpdates(h.store.Snapshot(), limit)
	if updates == nil {
		updates = []analytics.RecentUpdate{}
	}
	respondJSON(w, http.StatusOK, updates)
}

// ExportCSV handles GET /api/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="price-track-pro-export.csv"`)
	if err := export.WriteCSV(w, h.store.Snapshot()); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv export")
	}
}

func (h *Handler) timeframe(w http.ResponseWriter, r *http.Request) (analytics.Timeframe, bool) {
	raw := r.URL.Query().Get("timeframe")
	if raw == "" {
		return analytics.Month, true
	}
	tf, err := analytics.ParseTimeframe(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return tf, true
}
