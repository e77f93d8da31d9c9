package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/ingest"
	"p9e.in/riverai/pkg/series"
	"p9e.in/riverai/pkg/store"
)

const maxSampleBody = 64 << 10

// sampleFilter reads kit, since, until and limit from the query string.
func sampleFilter(r *http.Request) (store.SampleFilter, error) {
	q := r.URL.Query()
	var f store.SampleFilter
	if v := q.Get("kit"); v != "" {
		kit, ok := models.ParseKitType(v)
		if !ok {
			return f, ingest.ErrBadKitType
		}
		f.Kit = kit
	}
	for key, dst := range map[string]*time.Time{"since": &f.Since, "until": &f.Until} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		t, err := models.ParseJSONTime(v)
		if err != nil {
			return f, errors.New(key + " is not a valid time")
		}
		*dst = t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, errors.New("limit must be a non-negative integer")
		}
		f.Limit = n
	}
	return f, nil
}

// CreateSample stores one kit reading uploaded over HTTP. The kit type comes
// from ?kit or the payload's kit_type.
func (h *Handler) CreateSample(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	var kit models.KitType
	if v := r.URL.Query().Get("kit"); v != "" {
		k, ok := models.ParseKitType(v)
		if !ok {
			http.Error(w, ingest.ErrBadKitType.Error(), http.StatusBadRequest)
			return
		}
		kit = k
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxSampleBody))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	sample, err := ingest.BuildSample(ind.ID, kit, body, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Recorder.Store(r.Context(), sample, "http"); err != nil {
		h.fail(w, r, "failed to store sample", err)
		return
	}
	writeJSON(w, http.StatusCreated, sample)
}

func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	f, err := sampleFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	samples, err := h.Samples.ListForIndustry(r.Context(), ind.ID, f)
	if err != nil {
		h.fail(w, r, "failed to list samples", err)
		return
	}
	if samples == nil {
		samples = []models.WaterQualitySample{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"samples": samples})
}

// Series returns incoming and outgoing readings joined on measured_at for
// the comparison charts.
func (h *Handler) Series(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	f, err := sampleFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.Kit = ""
	samples, err := h.Samples.ListForIndustry(r.Context(), ind.ID, f)
	if err != nil {
		h.fail(w, r, "failed to list samples", err)
		return
	}
	incoming, outgoing := series.Split(samples)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"industry_code": ind.IndustryCode,
		"rows":          series.Merge(incoming, outgoing),
	})
}
