// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fraud-desk/internal/adapter"
	"github.com/fraud-desk/internal/logging"
	"github.com/fraud-desk/internal/models"
	"github.com/fraud-desk/internal/service"
	"github.com/fraud-desk/internal/types"
	"github.com/gorilla/mux"
)

// Service interfaces for dependency injection and testing

// ReportServiceInterface defines the interface for fraud report operations
type ReportServiceInterface interface {
	CreateReport(ctx context.Context, input *service.CreateReportInput) (*models.FraudReport, error)
	ListReports(ctx context.Context) ([]*models.FraudReport, error)
	GetReport(ctx context.Context, id int64) (*models.FraudReport, error)
	UpdateStatus(ctx context.Context, id int64, input *service.UpdateStatusInput) (*models.FraudReport, error)
}

// InvestigationServiceInterface defines the interface for investigation operations
type InvestigationServiceInterface interface {
	CreateInvestigation(ctx context.Context, input *service.CreateInvestigationInput) (*models.Investigation, error)
	GetInvestigation(ctx context.Context, id int64) (*models.Investigation, error)
	ListForReport(ctx context.Context, reportID int64) ([]*models.Investigation, error)
}

// WalletServiceInterface defines the interface for wallet lookups
type WalletServiceInterface interface {
	Lookup(ctx context.Context, address string) *types.WalletReport
}

// DatabasePinger reports whether the store is reachable
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// ProviderHealthReporter exposes upstream call statistics
type ProviderHealthReporter interface {
	Health() adapter.ProviderHealth
}

// Server represents the HTTP API server.
type Server struct {
	router               *mux.Router
	httpServer           *http.Server
	reportService        ReportServiceInterface
	investigationService InvestigationServiceInterface
	walletService        WalletServiceInterface
	db                   DatabasePinger
	provider             ProviderHealthReporter
	config               *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new API server instance.
func NewServer(
	config *ServerConfig,
	reportService ReportServiceInterface,
	investigationService InvestigationServiceInterface,
	walletService WalletServiceInterface,
	db DatabasePinger,
	provider ProviderHealthReporter,
) *Server {
	s := &Server{
		router:               mux.NewRouter(),
		reportService:        reportService,
		investigationService: investigationService,
		walletService:        walletService,
		db:                   db,
		provider:             provider,
		config:               config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	// Order matters: the request logger must exist before anything logs, and
	// recovery sits inside compression so a 500 is written through the gzip stream
	s.router.Use(LoggingMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(CompressionMiddleware)
	s.router.Use(RecoveryMiddleware)

	// mux skips Use middleware when no route matches
	s.router.NotFoundHandler = unmatched(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = unmatched(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "method not allowed")
	})

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:           s.router,
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
}

// unmatched gives router-level error responses the request id and CORS headers
func unmatched(fn http.HandlerFunc) http.Handler {
	return LoggingMiddleware(CORSMiddleware(fn))
}

// setupRoutes configures all API routes. OPTIONS is listed on every route so
// that preflight requests reach the CORS middleware.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	// Report endpoints
	api.HandleFunc("/reports", s.handleCreateReport).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/reports", s.handleListReports).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id:[0-9]+}", s.handleGetReport).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/reports/{id:[0-9]+}/status", s.handleUpdateReportStatus).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/reports/{id:[0-9]+}/investigations", s.handleListReportInvestigations).Methods(http.MethodGet, http.MethodOptions)

	// Investigation endpoints
	api.HandleFunc("/investigations", s.handleCreateInvestigation).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/investigations/{id:[0-9]+}", s.handleGetInvestigation).Methods(http.MethodGet, http.MethodOptions)

	// Wallet endpoints
	api.HandleFunc("/wallet/{address}", s.handleGetWallet).Methods(http.MethodGet, http.MethodOptions)
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "fraud-desk",
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			logging.FromContext(r.Context()).WithError(err).Warn("database ping failed")
			response["database"] = "unreachable"
		} else {
			response["database"] = "ok"
		}
	}

	if s.provider != nil {
		response["provider"] = s.provider.Health()
	}

	respondJSON(w, http.StatusOK, response)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.GetGlobalLogger().WithField("addr", s.httpServer.Addr).Info("starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
