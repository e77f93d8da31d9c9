package handlers

import (
	"net/http"
)

func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.Sectors.List(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list sectors", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "sectors": sectors})
}

// SectorCounts returns the stored sector_name -> count map.
func (h *Handler) SectorCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Sectors.Counts(r.Context())
	if err != nil {
		h.fail(w, r, "failed to fetch sector counts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "counts": counts})
}

func (h *Handler) SectorIndustries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid sector id", http.StatusBadRequest)
		return
	}
	sector, err := h.Sectors.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to load sector", err)
		return
	}
	industries, err := h.Industries.ListBySector(r.Context(), sector.SectorName)
	if err != nil {
		h.fail(w, r, "failed to list industries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"sector":     sector,
		"industries": industries,
	})
}

// ReconcileSectors recomputes every count from the industries table.
func (h *Handler) ReconcileSectors(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Sectors.Reconcile(r.Context())
	if err != nil {
		h.fail(w, r, "failed to reconcile sector counts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "counts": counts})
}
