package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/squidworks/gridiron/internal/scheduler"
	"github.com/squidworks/gridiron/internal/service"
	"github.com/squidworks/gridiron/internal/store"
)

// Server represents the REST API server
type Server struct {
	port    string
	server  *http.Server
	handler *Handler
}

// NewServer creates a new REST API server
func NewServer(port string, db *store.Database, svc *service.PredictionService, sched *scheduler.Scheduler, log *logrus.Logger) *Server {
	handler := NewHandler(db, svc, sched, log)

	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware(log))
	router.Use(LoggingMiddleware(log))
	router.Use(CORSMiddleware)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Predictions
	api.HandleFunc("/predictions", handler.GetPredictions).Methods("GET")
	api.HandleFunc("/predictions/top", handler.GetTopPredictions).Methods("GET")
	api.HandleFunc("/predictions/run", handler.RunPredictions).Methods("POST")

	// Players
	api.HandleFunc("/players/{playerID}/trend", handler.GetPlayerTrend).Methods("GET")
	api.HandleFunc("/players/{playerID}/seasons", handler.GetPlayerSeasons).Methods("GET")

	// Ingest operations
	api.HandleFunc("/ingest/refresh", handler.RefreshDataset).Methods("POST")

	return &Server{
		port:    port,
		handler: handler,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%s", port),
			Handler: router,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
