// Package api exposes the kinematics solver as a small HTTP service:
// REST endpoints for one-shot solves and a websocket endpoint for
// streaming waypoint batches, the way a motion planner consumes the
// solver. Payloads are JSON arrays of 3-element tuples.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"armkin-go/pkg/errors"
	"armkin-go/pkg/kinematics"
	"armkin-go/pkg/log"
	"armkin-go/pkg/metrics"

	"github.com/gorilla/websocket"
)

// Server provides the solve API.
type Server struct {
	solver *kinematics.Solver

	httpServer *http.Server
	addr       string

	wsUpgrader websocket.Upgrader

	metrics *metrics.SolverMetrics
	logger  *log.Logger

	running   atomic.Bool
	startTime time.Time
}

// Config holds server configuration.
type Config struct {
	// Addr is the HTTP address to listen on (e.g., ":8171")
	Addr string

	// Solver performs the kinematics computations
	Solver *kinematics.Solver
}

// New creates a new solve API server.
func New(cfg Config) *Server {
	s := &Server{
		solver:    cfg.Solver,
		addr:      cfg.Addr,
		metrics:   metrics.NewSolverMetrics(),
		logger:    log.GetLogger("api"),
		startTime: time.Now(),
	}

	s.wsUpgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Planner clients connect from anywhere on the host
		},
	}

	return s
}

// Metrics returns the server's metric bundle.
func (s *Server) Metrics() *metrics.SolverMetrics {
	return s.metrics
}

// Handler returns the HTTP handler with all endpoints registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/solve/ik", s.handleSolveIK)
	mux.HandleFunc("/solve/fk", s.handleSolveFK)
	mux.HandleFunc("/stream", s.handleStream)
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// Start starts listening. It blocks until the server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}
	s.running.Store(true)
	s.logger.Info("solve API listening on %s", s.addr)
	err := s.httpServer.ListenAndServe()
	s.running.Store(false)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// IsRunning reports whether the server is accepting connections.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// writeResult writes a {"result": ...} envelope.
func writeResult(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
}

// writeError writes an {"error": ...} envelope with a status derived
// from the error code: malformed input is 400, a kinematics domain
// failure 422, anything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.ErrRuntime
	if solverErr, ok := err.(*errors.SolverError); ok {
		code = solverErr.Code
	}
	s.metrics.Errors.Inc(metrics.Labels{"code": string(code)})

	status := http.StatusInternalServerError
	switch code {
	case errors.ErrKinematicsInput:
		status = http.StatusBadRequest
	case errors.ErrKinematicsDomain:
		status = http.StatusUnprocessableEntity
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":    string(code),
			"message": err.Error(),
		},
	})
}

// handleSolveIK solves inverse kinematics for a batch of positions.
func (s *Server) handleSolveIK(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Positions [][]float64 `json:"positions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.KinematicsInputError("malformed request body: "+err.Error()))
		return
	}

	joints, err := s.solveIK(req.Positions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeResult(w, map[string]interface{}{"joints": joints})
}

// handleSolveFK solves forward kinematics for a batch of joint states.
func (s *Server) handleSolveFK(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Joints [][]float64 `json:"joints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.KinematicsInputError("malformed request body: "+err.Error()))
		return
	}

	positions, err := s.solveFK(req.Joints)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeResult(w, map[string]interface{}{"positions": positions})
}

// handleInfo reports server identity and the configured arm geometry.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	limits := s.solver.Limits()
	writeResult(w, map[string]interface{}{
		"app":            "armkin",
		"uptime_seconds": time.Since(s.startTime).Seconds(),
		"limits": map[string]interface{}{
			"theta":         limits.Theta,
			"azimuth":       limits.Azimuth,
			"extension":     limits.Extension,
			"length_offset": limits.LengthOffset,
		},
	})
}

// handleMetrics serves the Prometheus text exposition.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	w.Write([]byte(s.metrics.Registry.Gather()))
}
