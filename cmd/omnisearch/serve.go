package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/omnisearch/internal/config"
	"github.com/nao1215/omnisearch/internal/engine"
	"github.com/nao1215/omnisearch/internal/log"
	"github.com/nao1215/omnisearch/internal/report"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the resolution engine as an HTTP service",
		Long: `Serve exposes the resolution engine over HTTP.

POST /search accepts a JSON body of the form {"queries": ["..."]} and
responds with a JSON array of resolutions in input order. Each entry is
either a fact, a summary with sources, or an error object when nothing
was found.

Examples:
  # Listen on the default address
  omnisearch serve

  # Listen on a custom address
  omnisearch serve --addr 0.0.0.0:9000`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", config.DefaultServeAddr,
		"Listen address for the HTTP service")
	cmd.Flags().StringP("mode", "m", config.DefaultMode,
		"Engine mode: fact-seeking or summary-only")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of queries resolved concurrently per request")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .omnisearch in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		return err
	}

	// The serve command takes no queries; Validate requires one, so fill a
	// placeholder and clear it afterwards.
	cfg.Queries = []string{"-"}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	cfg.Queries = nil

	cfg.ServeAddr, err = cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}

	logger := log.NewRedactJSONLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	srv := newServer(cfg, eng, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http service listening", "addr", cfg.ServeAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// searchRequest is the POST /search request body.
type searchRequest struct {
	Queries []string `json:"queries"`
}

// maxRequestBody bounds the /search request body size.
const maxRequestBody = 64 * 1024

// newServer builds the HTTP server around a resolution engine.
func newServer(cfg *config.Config, eng *engine.Engine, logger *slog.Logger) *http.Server {
	bp := engine.NewBatchProcessor(eng,
		engine.WithConcurrency(cfg.BatchSize),
		engine.WithBatchLogger(logger),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /search", func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		body := http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		if len(req.Queries) == 0 {
			http.Error(w, "no queries given", http.StatusBadRequest)
			return
		}

		results, err := bp.ResolveAll(r.Context(), req.Queries)
		if err != nil {
			logger.Error("batch resolution failed", "error", err)
			http.Error(w, "resolution failed", http.StatusInternalServerError)
			return
		}

		payloads := make([]*report.WirePayload, 0, len(results))
		for _, res := range results {
			payloads = append(payloads, report.Payload(res))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(payloads); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
