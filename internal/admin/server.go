// Package admin serves the HTTP side door of the control plane: health,
// Prometheus metrics, a read-only JSON view of the live configuration and a
// command endpoint backed by the shared command registry.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"partnerplane/internal/command"
	"partnerplane/internal/formatting"
	"partnerplane/internal/partnership"
	"partnerplane/pkg/logging"
)

const subsystem = "Admin"

// maxCommandBody caps the size of a POSTed command line.
const maxCommandBody = 64 << 10

// SnapshotSource provides the live configuration.
type SnapshotSource interface {
	Current() *partnership.Snapshot
}

// Server is the admin HTTP endpoint.
type Server struct {
	address  string
	source   SnapshotSource
	registry *command.Registry
	gatherer prometheus.Gatherer

	router   chi.Router
	listener net.Listener
}

// CommandResponse is the JSON reply of the command endpoint.
type CommandResponse struct {
	Type   command.ResultType `json:"type"`
	Result string             `json:"result"`
}

// StatusResponse summarizes the published snapshot.
type StatusResponse struct {
	Revision     string    `json:"revision"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loadedAt"`
	Partners     int       `json:"partners"`
	Partnerships int       `json:"partnerships"`
}

// New creates the admin server. A nil gatherer serves the default registry.
func New(address string, source SnapshotSource, registry *command.Registry, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		address:  address,
		source:   source,
		registry: registry,
		gatherer: gatherer,
	}
	s.router = s.routes()
	return s
}

// Name implements processor.Runner.
func (s *Server) Name() string {
	return "admin"
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/partners", s.handlePartners)
		r.Get("/partners/{name}", s.handlePartner)
		r.Get("/partnerships", s.handlePartnerships)
		r.Get("/partnerships/{name}", s.handlePartnership)
		r.Post("/commands", s.handleCommand)
	})
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.source.Current()
	writeJSON(w, http.StatusOK, StatusResponse{
		Revision:     snap.Revision,
		Source:       snap.Source,
		LoadedAt:     snap.LoadedAt,
		Partners:     snap.Partners.Len(),
		Partnerships: snap.Partnerships.Len(),
	})
}

func (s *Server) handlePartners(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, formatting.PartnerViews(s.source.Current()))
}

func (s *Server) handlePartner(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, v := range formatting.PartnerViews(s.source.Current()) {
		if v.Name == name {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown partner: %s", name))
}

func (s *Server) handlePartnerships(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, formatting.PartnershipViews(s.source.Current()))
}

func (s *Server) handlePartnership(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	for _, v := range formatting.PartnershipViews(s.source.Current()) {
		if v.Name == name {
			writeJSON(w, http.StatusOK, v)
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("unknown partnership: %s", name))
}

// handleCommand runs the request body as one command line. ERROR results
// are still 200; only unusable requests get a 4xx.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBody+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) > maxCommandBody {
		writeError(w, http.StatusRequestEntityTooLarge, "command too long")
		return
	}

	line := strings.TrimSpace(string(body))
	res := s.registry.ExecuteLine(r.Context(), line)
	logging.Debug(subsystem, "Command %q from %s returned %s (request %s)",
		line, r.RemoteAddr, res.Type, middleware.GetReqID(r.Context()))

	writeJSON(w, http.StatusOK, CommandResponse{Type: res.Type, Result: res.Text()})
}

// Listen binds the listen address. It is called by Run when needed.
func (s *Server) Listen() error {
	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	httpServer := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info(subsystem, "Serving admin endpoint on http://%s", s.listener.Addr())
		errCh <- httpServer.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("admin server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(subsystem, err, "Error shutting down admin server")
	}
	logging.Info(subsystem, "Admin endpoint stopped")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn(subsystem, "Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
