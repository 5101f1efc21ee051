package http

import (
	"net/http"

	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/handler"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/delivery/http/middleware"
	"github.com/vmonroyc-dev/faltantes-chmh-version-2/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router            *mux.Router
	healthHandler     *handler.HealthHandler
	catalogHandler    *handler.CatalogHandler
	reportHandler     *handler.ReportHandler
	adminHandler      *handler.AdminHandler
	authMiddleware    *middleware.AuthMiddleware
	clientMiddleware  *middleware.ClientMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	rateLimiter       *middleware.RateLimiter
}

func NewRouter(
	healthHandler *handler.HealthHandler,
	catalogHandler *handler.CatalogHandler,
	reportHandler *handler.ReportHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
	clientMiddleware *middleware.ClientMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		healthHandler:     healthHandler,
		catalogHandler:    catalogHandler,
		reportHandler:     reportHandler,
		adminHandler:      adminHandler,
		authMiddleware:    authMiddleware,
		clientMiddleware:  clientMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		rateLimiter:       rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthHandler.Check).Methods(http.MethodGet, http.MethodOptions)

	// Admin session (public)
	api.HandleFunc("/admin/session", r.adminHandler.CreateSession).Methods(http.MethodPost, http.MethodOptions)

	// Capture routes (public, per device)
	public := api.NewRoute().Subrouter()
	public.Use(r.clientMiddleware.Identify)
	public.HandleFunc("/services", r.catalogHandler.ListServices).Methods(http.MethodGet, http.MethodOptions)
	public.HandleFunc("/catalog/items", r.catalogHandler.SearchItems).Methods(http.MethodGet, http.MethodOptions)
	public.HandleFunc("/catalog/items/{id}", r.catalogHandler.GetItem).Methods(http.MethodGet, http.MethodOptions)
	public.HandleFunc("/physician", r.reportHandler.RecallPhysician).Methods(http.MethodGet, http.MethodOptions)
	public.Handle("/reports", r.rateLimiter.Limit(http.HandlerFunc(r.reportHandler.SubmitReport))).Methods(http.MethodPost, http.MethodOptions)

	// Admin routes (protected)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.HandleFunc("/logout", r.adminHandler.Logout).Methods(http.MethodPost, http.MethodOptions)
	admin.HandleFunc("/reports", r.adminHandler.ListReports).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/reports/export", r.adminHandler.ExportReports).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/reports/pending", r.adminHandler.PendingReports).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/reports/reconcile", r.adminHandler.Reconcile).Methods(http.MethodPost, http.MethodOptions)
	admin.HandleFunc("/reports/{id}", r.adminHandler.DeleteReport).Methods(http.MethodDelete, http.MethodOptions)

	// OPTIONS is routed so preflights reach the CORS middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(metrics.Metrics)
	r.router.Use(r.loggingMiddleware.Handle)

	return r.router
}
