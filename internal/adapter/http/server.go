package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/weather-data-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-data-qc/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checker runs the quality-control checks over an uploaded series.
type Checker interface {
	Transform(ctx context.Context, series domain.Series) (domain.Result, error)
}

// Server exposes health, readiness, metrics, and the QC endpoint.
type Server struct {
	httpServer *http.Server
	checker    Checker
	maxUpload  int64
	logger     *slog.Logger
	ready      atomic.Bool
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and
// POST /v1/qc routes. Request bodies larger than maxUpload bytes are rejected.
func NewServer(addr string, checker Checker, maxUpload int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		checker:   checker,
		maxUpload: maxUpload,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(s))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/qc", s.handleQC)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	s.ready.Store(true)
	return s.httpServer.ListenAndServe()
}

// Shutdown marks the server not ready and drains connections within the
// given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	return s.httpServer.Shutdown(ctx)
}

// CheckReadiness reports whether the server is accepting work.
func (s *Server) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("server is not accepting requests")
	}
	return nil
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type summaryRow struct {
	Check  string        `json:"check"`
	Counts domain.Counts `json:"counts"`
}

type qcResponse struct {
	ProcessedAt  time.Time            `json:"processed_at"`
	Variables    []string             `json:"variables"`
	Summary      []summaryRow         `json:"summary"`
	Observations []domain.Observation `json:"observations"`
}

func (s *Server) handleQC(w http.ResponseWriter, r *http.Request) {
	// Read the whole body first so an oversized upload is never mistaken for
	// a truncated row.
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxUpload))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}

	series, err := textfile.ParseSeries(bytes.NewReader(data))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.checker.Transform(r.Context(), series)
	if err != nil {
		s.logger.Error("quality control failed", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sharedobs.WriteJSON(w, http.StatusOK, newQCResponse(res))
}

func newQCResponse(res domain.Result) qcResponse {
	resp := qcResponse{
		ProcessedAt:  res.ProcessedAt,
		Variables:    make([]string, 0, domain.NumVariables),
		Summary:      make([]summaryRow, 0, domain.NumChecks),
		Observations: res.Series.Observations,
	}
	if resp.Observations == nil {
		resp.Observations = []domain.Observation{}
	}
	for _, v := range domain.Variables {
		resp.Variables = append(resp.Variables, v.String())
	}
	for _, c := range domain.Checks {
		resp.Summary = append(resp.Summary, summaryRow{Check: c.String(), Counts: res.Ledger.Row(c)})
	}
	return resp
}

func writeError(w http.ResponseWriter, status int, err error) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
}
