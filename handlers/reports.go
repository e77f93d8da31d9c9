package handlers

import (
	"net/http"
	"strconv"
	"time"

	"p9e.in/riverai/pkg/reports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// IndustryReport streams the period workbook as an attachment.
func (h *Handler) IndustryReport(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	q := r.URL.Query()
	raw := q.Get("period")
	if raw == "" {
		raw = string(reports.PeriodDay)
	}
	period, err := reports.ParsePeriod(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	day := h.now().UTC()
	if v := q.Get("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = d
	}

	rep, err := h.Reports.Generate(r.Context(), ind.ID, period, day)
	if err != nil {
		h.fail(w, r, "failed to generate report", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rep.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Content)))
	if rep.Location != "" {
		w.Header().Set("X-Report-Location", rep.Location)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(rep.Content)
}
