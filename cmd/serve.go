// ABOUTME: Serve command for the bess CLI
// ABOUTME: Runs the HTTP API with the configured store until interrupted

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Simtestlab/bess-handbook/config"
	"github.com/Simtestlab/bess-handbook/handlers"
	"github.com/Simtestlab/bess-handbook/logger"
	"github.com/Simtestlab/bess-handbook/services"
	"github.com/Simtestlab/bess-handbook/store"
)

// shutdownTimeout bounds how long in-flight requests may finish after a signal
const shutdownTimeout = 5 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the design API. Configuration comes from the environment and an
optional .env file: PORT, CACHE_TTL, STORE_BACKEND, STORE_PATH, STORE_DSN,
DESIGN_SLOT, CORS_ALLOWED_ORIGINS and the RATE_LIMIT_* settings.`,
	Run: runWithExitCode(runServe),
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PORT)")
}

// runServe starts the server and blocks until ctx is cancelled
func runServe(ctx context.Context, w io.Writer) int {
	// Server logs are informational unless LOG_LEVEL says otherwise
	logger.InitWriter(os.Stderr)

	cfg, err := loadConfig()
	if err != nil {
		writeError(w, err)
		return 2
	}
	if servePort != "" {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			writeError(w, err)
			return 2
		}
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		writeError(w, fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err))
		return 2
	}

	if err := serve(ctx, cfg, ln); err != nil {
		writeError(w, err)
		return 2
	}
	return 0
}

// serve runs the API on ln until ctx is cancelled, then shuts down gracefully
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	st, err := store.Open(cfg.StoreOptions())
	if err != nil {
		ln.Close()
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer st.Close()

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	engine := services.NewMemoEngine(services.NewEngine(), cacheTTL)
	defer engine.Close()

	slog.Info("Starting BESS design API")
	slog.Info("Store configured", "backend", cfg.StoreBackend, "slot", cfg.DesignSlot)
	slog.Info("Cache initialized", "ttl", cacheTTL)
	if cfg.RateLimitEnabled {
		slog.Info("Rate limiting enabled", "write_per_min", cfg.RateLimitWrite, "default_per_min", cfg.RateLimitDefault)
	}

	h := handlers.NewHandler(cfg, engine, st)
	server := &http.Server{
		Handler:           handlers.NewServeMux(h, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", ln.Addr().String())
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down cleanly: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}
