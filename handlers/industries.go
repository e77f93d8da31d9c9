package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"p9e.in/riverai/middleware"
	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/store"
	"p9e.in/riverai/utils"
)

const defaultNearbyRadiusKm = 10

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func industryError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func validateIndustry(ind *models.Industry) error {
	ind.Name = strings.TrimSpace(ind.Name)
	ind.IndustryCode = strings.TrimSpace(ind.IndustryCode)
	ind.IndustryType = strings.TrimSpace(ind.IndustryType)
	switch {
	case ind.Name == "":
		return errors.New("name is required")
	case ind.IndustryCode == "":
		return errors.New("industry_code is required")
	case ind.IndustryType == "":
		return errors.New("industry_type is required")
	case ind.Latitude != nil && ind.Longitude == nil, ind.Latitude == nil && ind.Longitude != nil:
		return errors.New("latitude and longitude go together")
	}
	if ind.HasCoordinates() {
		return utils.Coordinate{Lat: *ind.Latitude, Lng: *ind.Longitude}.Validate()
	}
	return nil
}

// CreateIndustry registers an industry and bumps its sector count.
func (h *Handler) CreateIndustry(w http.ResponseWriter, r *http.Request) {
	var ind models.Industry
	if err := json.NewDecoder(r.Body).Decode(&ind); err != nil {
		industryError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ind.ID = uuid.Nil
	if err := validateIndustry(&ind); err != nil {
		industryError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Industries.Create(r.Context(), &ind); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			industryError(w, http.StatusConflict, "industry_code already registered")
			return
		}
		h.fail(w, r, "failed to create industry", err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: ind})
}

// ListIndustries returns every industry, or only the caller's own for an
// industry owner.
func (h *Handler) ListIndustries(w http.ResponseWriter, r *http.Request) {
	var (
		out []models.Industry
		err error
	)
	if middleware.GetRole(r) == models.RoleIndustryOwner {
		out, err = h.Industries.ListForOwner(r.Context(), middleware.GetUserID(r))
	} else {
		out, err = h.Industries.List(r.Context())
	}
	if err != nil {
		h.fail(w, r, "failed to list industries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "industries": out})
}

func (h *Handler) GetIndustry(w http.ResponseWriter, r *http.Request) {
	ind := h.loadIndustry(w, r)
	if ind == nil {
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: ind})
}

// UpdateIndustry replaces the industry's fields. A changed industry_type
// moves the sector counts with it.
func (h *Handler) UpdateIndustry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		industryError(w, http.StatusBadRequest, "invalid industry id")
		return
	}
	var ind models.Industry
	if err := json.NewDecoder(r.Body).Decode(&ind); err != nil {
		industryError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	ind.ID = id
	if err := validateIndustry(&ind); err != nil {
		industryError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Industries.Update(r.Context(), &ind); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			industryError(w, http.StatusNotFound, "industry not found")
		case errors.Is(err, store.ErrDuplicate):
			industryError(w, http.StatusConflict, "industry_code already registered")
		default:
			h.fail(w, r, "failed to update industry", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: ind})
}

type nearbyIndustry struct {
	models.Industry
	DistanceKm float64 `json:"distance_km"`
}

// NearbyIndustries lists industries within radius_km of lat,lng.
func (h *Handler) NearbyIndustries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(q.Get("lng"), 64)
	if errLat != nil || errLng != nil {
		http.Error(w, "lat and lng are required", http.StatusBadRequest)
		return
	}
	center := utils.Coordinate{Lat: lat, Lng: lng}
	if err := center.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	radius := float64(defaultNearbyRadiusKm)
	if v := q.Get("radius_km"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			http.Error(w, "radius_km must be a positive number", http.StatusBadRequest)
			return
		}
		radius = f
	}

	all, err := h.Industries.List(r.Context())
	if err != nil {
		h.fail(w, r, "failed to list industries", err)
		return
	}
	byID := make(map[string]models.Industry, len(all))
	places := make([]utils.Placed, 0, len(all))
	for _, ind := range all {
		if !ind.HasCoordinates() {
			continue
		}
		byID[ind.ID.String()] = ind
		places = append(places, utils.Placed{
			Key:      ind.ID.String(),
			Position: utils.Coordinate{Lat: *ind.Latitude, Lng: *ind.Longitude},
		})
	}
	matches := utils.Nearby(center, radius, places)
	out := make([]nearbyIndustry, 0, len(matches))
	for _, m := range matches {
		out = append(out, nearbyIndustry{Industry: byID[m.Key], DistanceKm: m.DistanceKm})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "industries": out})
}

const myIndustryAlertLimit = 20

// MyIndustry is the industry owner's dashboard: their industry and its
// most recent alerts.
func (h *Handler) MyIndustry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	claims := middleware.GetClaims(r)
	var ind *models.Industry
	if claims != nil && claims.IndustryID != "" {
		if id, err := uuid.Parse(claims.IndustryID); err == nil {
			got, err := h.Industries.Get(ctx, id)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				h.fail(w, r, "failed to load industry", err)
				return
			}
			ind = got
		}
	}
	if ind == nil {
		owned, err := h.Industries.ListForOwner(ctx, middleware.GetUserID(r))
		if err != nil {
			h.fail(w, r, "failed to load industry", err)
			return
		}
		if len(owned) == 0 {
			http.Error(w, "no industry linked to this account", http.StatusNotFound)
			return
		}
		ind = &owned[0]
	}

	alerts, err := h.Alerts.List(ctx, store.AlertFilter{
		IndustryIDs: []string{ind.ID.String()},
		Limit:       myIndustryAlertLimit,
	})
	if err != nil {
		h.fail(w, r, "failed to list alerts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"industry": ind,
		"alerts":   alerts,
	})
}
