// Package api exposes the backtest engine over HTTP. Every request runs on
// its own engine instance, so concurrent backtests never share state.
package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/version"
	"github.com/testback-lab/testback/pkg/errors"
	"go.uber.org/zap"
)

type Server struct {
	router     *mux.Router
	log        *logger.Logger
	httpServer *http.Server
	listener   net.Listener
	dataSource datasource.DataSource
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(log *logger.Logger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		log:    log,
	}

	s.router.HandleFunc("/", s.handleRoot).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/schema", s.handleSchema).Methods("GET")
	s.router.HandleFunc("/schema/request", s.handleRequestSchema).Methods("GET")
	s.router.HandleFunc("/backtest", s.handleBacktest).Methods("POST")

	return s
}

// SetDataSource installs a shared price-data source. Requests that carry no
// inline bars are served from it; without one they are rejected.
func (s *Server) SetDataSource(ds datasource.DataSource) {
	s.dataSource = ds
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on the given address and blocks until the server
// stops.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info("api server listening", zap.String("address", listener.Addr().String()))

	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Address returns the bound address, empty before Start.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"name":    "testback",
		"version": version.GetVersion(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", zap.Error(err))
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, errorResponse{Error: err.Error(), Code: int(errors.GetCode(err))})
}

// statusFor maps engine error codes to HTTP statuses: client-side problems
// (bad graphs, bad parameters, missing data) are 4xx, everything else 500.
func statusFor(err error) int {
	code := errors.GetCode(err)

	switch {
	case code >= 400 && code < 500:
		return http.StatusBadRequest
	case code == errors.ErrCodeDataUnavailable || code == errors.ErrCodeEmptySeries:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeInvalidTimeframe || code == errors.ErrCodeBacktestConfigError:
		return http.StatusBadRequest
	case code == errors.ErrCodeVersionMismatch || code == errors.ErrCodeInvalidVersion:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
