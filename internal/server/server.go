package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campaign-transmitter/internal/campaign"
	"campaign-transmitter/internal/sparkpost"
	"campaign-transmitter/internal/transmission"
)

const (
	requestIdHeader = "X-Request-Id"
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
)

type sender interface {
	Send(ctx context.Context, c *campaign.Campaign) (*transmission.Result, error)
}

type Server struct {
	port     int
	sender   sender
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

func New(port int, sender sender, gatherer prometheus.Gatherer) *Server {
	return &Server{
		port:     port,
		sender:   sender,
		gatherer: gatherer,
		logger:   slog.With("component", "server"),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health-check", s.handleHealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	r.Post("/transmissions", s.handleTransmission)

	return r
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) handleTransmission(w http.ResponseWriter, r *http.Request) {
	requestId := r.Header.Get(requestIdHeader)
	if requestId == "" {
		requestId = uuid.NewString()
	}
	w.Header().Set(requestIdHeader, requestId)
	logger := s.logger.With("request", requestId)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn(fmt.Sprintf("failed to read body, error: %v", err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	c, err := campaign.Decode(body)
	if err != nil {
		logger.Warn(fmt.Sprintf("invalid campaign body, error: %v", err))
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	result, err := s.sender.Send(r.Context(), c)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to send, error: %v", err))
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}

	if result == nil {
		result = &transmission.Result{}
	}

	logger.Info(fmt.Sprintf("transmission %s accepted", result.ID))
	writeJSON(w, http.StatusOK, result)
}

// statusFor keeps the provider status for API errors; anything else is a
// failure of the upstream provider.
func statusFor(err error) int {
	var apiErr *sparkpost.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) ListenAndServe(ctx context.Context) error {
	baseContextFunc := func(_ net.Listener) context.Context {
		return ctx
	}

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", s.port),
		BaseContext: baseContextFunc,
		Handler:     s.Handler(),
	}

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info(fmt.Sprintf("listening on :%d", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		s.logger.Error(fmt.Sprintf("server stopped, error: %v", err))
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	ctxShutDown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}
