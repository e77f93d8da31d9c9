package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"p9e.in/riverai/handlers"
	"p9e.in/riverai/middleware"
	"p9e.in/riverai/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(h *handlers.Handler, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.Auth.JWT)

	api.HandleFunc("/profile", h.Profile).Methods("GET")

	registerIndustryRoutes(api, h)
	registerMonitoringRoutes(api, h)

	// =====================================================
	// Admin Routes
	// =====================================================
	handle(api, "/users", "user:read", adminOnly(h.ListUsers), "GET")
	handle(api, "/users/{id}/verification", "user:update", adminOnly(h.SetVerification), "PUT")
	handle(api, "/sectors/reconcile", "sector:reconcile", adminOnly(h.ReconcileSectors), "POST")

	return r
}

// handle registers one route behind a permission check.
func handle(router *mux.Router, path, permission string, fn http.HandlerFunc, method string) {
	router.Handle(path, middleware.RequirePermission(permission)(fn)).Methods(method)
}

func adminOnly(fn http.HandlerFunc) http.HandlerFunc {
	return middleware.RequireRole([]string{models.RoleAdmin}, fn).ServeHTTP
}

func registerIndustryRoutes(api *mux.Router, h *handlers.Handler) {
	// nearby must precede {id}
	handle(api, "/industries/nearby", "industry:read", h.NearbyIndustries, "GET")
	handle(api, "/industries", "industry:read", h.ListIndustries, "GET")
	handle(api, "/industries", "industry:create", h.CreateIndustry, "POST")
	handle(api, "/industries/{id}", "industry:read", h.GetIndustry, "GET")
	handle(api, "/industries/{id}", "industry:update", h.UpdateIndustry, "PUT")
	handle(api, "/me/industry", "industry:read", h.MyIndustry, "GET")

	handle(api, "/sectors", "sector:read", h.ListSectors, "GET")
	handle(api, "/sectors/counts", "sector:read", h.SectorCounts, "GET")
	handle(api, "/sectors/{id}/industries", "sector:read", h.SectorIndustries, "GET")
}

func registerMonitoringRoutes(api *mux.Router, h *handlers.Handler) {
	handle(api, "/industries/{id}/samples", "sample:create", h.CreateSample, "POST")
	handle(api, "/industries/{id}/samples", "sample:read", h.ListSamples, "GET")
	handle(api, "/industries/{id}/series", "sample:read", h.Series, "GET")
	handle(api, "/industries/{id}/check", "alert:check", h.CheckIndustry, "POST")
	handle(api, "/industries/{id}/warning", "email:send", h.SendWarning, "POST")
	handle(api, "/industries/{id}/report", "report:read", h.IndustryReport, "GET")

	handle(api, "/alerts", "alert:read", h.ListAlerts, "GET")
	handle(api, "/alerts/history", "alert:read", h.AlertHistory, "GET")

	handle(api, "/emails", "email:send", h.SendEmail, "POST")
	handle(api, "/emails", "email:read", h.ListEmails, "GET")
}
