package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes a Prometheus gatherer over HTTP.
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

func NewServer(addr string, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves in the background; listen errors are logged.
func (s *Server) Start() {
	s.logger.Info().Str("addr", s.server.Addr).Msg("starting metrics server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("stopping metrics server")
	return s.server.Shutdown(ctx)
}
