package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"p9e.in/riverai/middleware"
	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/store"
)

var historyWindows = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"all": 0,
}

// scopeAlerts restricts f to the caller's industries when the caller is an
// industry owner. ok is false when the owner has no industry at all.
func (h *Handler) scopeAlerts(r *http.Request, f *store.AlertFilter) (ok bool, err error) {
	if middleware.GetRole(r) != models.RoleIndustryOwner {
		return true, nil
	}
	owned, err := h.Industries.ListForOwner(r.Context(), middleware.GetUserID(r))
	if err != nil {
		return false, err
	}
	if claims := middleware.GetClaims(r); claims != nil && claims.IndustryID != "" {
		f.IndustryIDs = append(f.IndustryIDs, claims.IndustryID)
	}
	for _, ind := range owned {
		f.IndustryIDs = append(f.IndustryIDs, ind.ID.String())
	}
	return len(f.IndustryIDs) > 0, nil
}

// ListAlerts returns every alert newest first together with the sectors,
// for the dashboard.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var f store.AlertFilter
	ok, err := h.scopeAlerts(r, &f)
	if err != nil {
		h.Logger.Error("Failed to scope alerts", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch data"})
		return
	}
	alerts := []models.Alert{}
	if ok {
		alerts, err = h.Alerts.List(ctx, f)
	}
	if err != nil {
		h.Logger.Error("Failed to list alerts", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch data"})
		return
	}
	sectors, err := h.Sectors.List(ctx)
	if err != nil {
		h.Logger.Error("Failed to list sectors", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch data"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts, "sectors": sectors})
}

// AlertHistory filters alerts by period (24h, 7d, 30d, all), sector and
// industry code. "all" in sector or industry means no restriction.
func (h *Handler) AlertHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period := q.Get("period")
	if period == "" {
		period = "all"
	}
	window, known := historyWindows[period]
	if !known {
		http.Error(w, "period must be one of 24h, 7d, 30d, all", http.StatusBadRequest)
		return
	}

	var f store.AlertFilter
	if window > 0 {
		f.Since = h.now().UTC().Add(-window)
	}
	if s := q.Get("sector"); s != "" && s != "all" {
		f.Sector = s
	}
	if c := q.Get("industry"); c != "" && c != "all" {
		f.IndustryCode = c
	}
	ok, err := h.scopeAlerts(r, &f)
	if err != nil {
		h.fail(w, r, "failed to list alerts", err)
		return
	}
	alerts := []models.Alert{}
	if ok {
		if alerts, err = h.Alerts.List(r.Context(), f); err != nil {
			h.fail(w, r, "failed to list alerts", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"period": period, "alerts": alerts})
}

// CheckIndustry runs one breach check now and returns the alerts it inserted.
func (h *Handler) CheckIndustry(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	inserted, err := h.Checker.CheckIndustry(r.Context(), ind.ID)
	if err != nil {
		h.fail(w, r, "breach check failed", err)
		return
	}
	if inserted == nil {
		inserted = []models.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"inserted": len(inserted), "alerts": inserted})
}

// SendWarning is the manual warning trigger. A notifier failure is reported
// as 502 with the composed result so the caller can show what was attempted.
func (h *Handler) SendWarning(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	res, err := h.Warner.SendWarning(r.Context(), ind.ID)
	if err != nil {
		if res.Recipient != "" && !res.Sent {
			h.Logger.Warn("Warning email failed", zap.String("industry_code", ind.IndustryCode), zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  "Error sending email.",
				"result": res,
			})
			return
		}
		h.fail(w, r, "failed to send warning", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
