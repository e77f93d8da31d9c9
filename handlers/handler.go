package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"p9e.in/riverai/middleware"
	"p9e.in/riverai/models"
	"p9e.in/riverai/pkg/alerting"
	"p9e.in/riverai/pkg/notify"
	"p9e.in/riverai/pkg/reports"
	"p9e.in/riverai/pkg/store"
)

type IndustryStore interface {
	Create(ctx context.Context, ind *models.Industry) error
	Update(ctx context.Context, ind *models.Industry) error
	Get(ctx context.Context, id uuid.UUID) (*models.Industry, error)
	List(ctx context.Context) ([]models.Industry, error)
	ListBySector(ctx context.Context, sectorName string) ([]models.Industry, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Industry, error)
}

type SectorStore interface {
	List(ctx context.Context) ([]models.Sector, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Sector, error)
	Counts(ctx context.Context) (map[string]int64, error)
	Reconcile(ctx context.Context) (map[string]int64, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role string) ([]models.User, error)
	SetVerification(ctx context.Context, id uuid.UUID, verified bool) (*models.User, error)
}

type SampleStore interface {
	ListForIndustry(ctx context.Context, industryID uuid.UUID, f store.SampleFilter) ([]models.WaterQualitySample, error)
}

type AlertStore interface {
	List(ctx context.Context, f store.AlertFilter) ([]models.Alert, error)
}

type EmailStore interface {
	List(ctx context.Context, limit int) ([]models.SentEmail, error)
}

// Checker runs one breach check for an industry.
type Checker interface {
	CheckIndustry(ctx context.Context, industryID uuid.UUID) ([]models.Alert, error)
}

// Warner sends the manual warning email.
type Warner interface {
	SendWarning(ctx context.Context, industryID uuid.UUID) (alerting.WarningResult, error)
}

// SampleRecorder persists a sample built from an HTTP upload.
type SampleRecorder interface {
	Store(ctx context.Context, sample *models.WaterQualitySample, source string) error
}

type ReportGenerator interface {
	Generate(ctx context.Context, industryID uuid.UUID, period reports.Period, day time.Time) (*reports.Report, error)
}

// Deps are the collaborators the HTTP layer passes requests through to.
type Deps struct {
	Industries IndustryStore
	Sectors    SectorStore
	Users      UserStore
	Samples    SampleStore
	Alerts     AlertStore
	Emails     EmailStore
	Checker    Checker
	Warner     Warner
	Recorder   SampleRecorder
	Sender     notify.Sender
	Reports    ReportGenerator
	Auth       *middleware.Auth
	Logger     *zap.Logger
}

type Handler struct {
	Deps
	now func() time.Time
}

func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return &Handler{Deps: d, now: time.Now}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, notify.ErrInvalidMessage), errors.Is(err, alerting.ErrMissingContact):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes a plain error response. Server errors are logged and their
// detail is not returned.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error(msg, zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, msg, status)
		return
	}
	http.Error(w, err.Error(), status)
}

func pathID(r *http.Request, key string) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)[key])
}

// ownsIndustry reports whether the caller may see ind. Admin and pcb see
// everything, an industry owner only their own industry.
func ownsIndustry(r *http.Request, ind *models.Industry) bool {
	claims := middleware.GetClaims(r)
	if claims == nil {
		return false
	}
	if claims.Role != models.RoleIndustryOwner {
		return true
	}
	if claims.IndustryID != "" && claims.IndustryID == ind.ID.String() {
		return true
	}
	return ind.OwnerID != nil && ind.OwnerID.String() == claims.UserID
}

// loadIndustry resolves {id} and enforces ownership. It writes the error
// response itself and returns nil on failure.
func (h *Handler) loadIndustry(w http.ResponseWriter, r *http.Request) *models.Industry {
	id, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "invalid industry id", http.StatusBadRequest)
		return nil
	}
	ind, err := h.Industries.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "failed to load industry", err)
		return nil
	}
	if !ownsIndustry(r, ind) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return ind
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
