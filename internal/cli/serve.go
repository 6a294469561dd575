package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/viant/structor"
	"github.com/viant/structor/internal/clock"
	"github.com/viant/structor/metrics"
	"github.com/viant/structor/runtime/orchestrator"
)

const shutdownTimeout = 10 * time.Second

// ExtractRequest is the /extract request body
type ExtractRequest struct {
	Text   string   `json:"text"`
	Fields []string `json:"fields,omitempty"`
}

// ExtractResponse is the /extract response body
type ExtractResponse struct {
	*orchestrator.Result
	Error string `json:"error,omitempty"`
}

// NewServeCmd creates the serve command
func NewServeCmd(global *Global) *cobra.Command {
	var flags engineFlags
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extractions over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := global.Logger(cmd.ErrOrStderr())
			global.initTracing(logger)

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			engineMetrics, err := metrics.New(registry)
			if err != nil {
				return err
			}
			srv, err := global.load(cmd.Context(), &flags, logger, structor.WithMetrics(engineMetrics))
			if err != nil {
				return err
			}

			server := &http.Server{Addr: addr, Handler: NewHandler(srv, registry, logger)}
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			logger.Info("stopped")
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	return cmd
}

// NewHandler returns routes for /extract, /healthz and /metrics
func NewHandler(srv *structor.Service, gatherer prometheus.Gatherer, logger *slog.Logger) http.Handler {
	started := clock.Now()
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", clock.Since(started))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var request ExtractRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
			return
		}
		if request.Text == "" {
			http.Error(w, "invalid request: text was empty", http.StatusBadRequest)
			return
		}
		var result *orchestrator.Result
		var err error
		if len(request.Fields) > 0 {
			result, err = srv.RunFields(r.Context(), request.Text, request.Fields...)
		} else {
			result, err = srv.Run(r.Context(), request.Text)
		}
		response := &ExtractResponse{Result: result}
		status := http.StatusOK
		if err != nil {
			logger.Warn("extraction failed", "error", err)
			response.Error = err.Error()
			if result == nil {
				status = http.StatusInternalServerError
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Warn("failed to write response", "error", err)
		}
	})
	return mux
}
