// server is the Bitbucket MCP server binary. It exposes Bitbucket
// Cloud repositories, pull requests and pipelines to MCP clients over
// stdio or HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bitbucket-mcp/internal/config"
	"bitbucket-mcp/internal/logging"
	"bitbucket-mcp/internal/mcp"

	"github.com/fatih/color"
	"github.com/fredcamaral/gomcp-sdk/protocol"
	"github.com/fredcamaral/gomcp-sdk/server"
	"github.com/fredcamaral/gomcp-sdk/transport"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		mode = flag.String("mode", "stdio", "Server mode: stdio or http")
		addr = flag.String("addr", ":9080", "HTTP server address (when mode=http)")
	)
	flag.Parse()

	logger := logging.NewLogger(logging.ParseLevel(os.Getenv("LOG_LEVEL"))).WithComponent("main")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("configuration invalid", "error", err.Error())
		os.Exit(1)
	}

	srv, err := mcp.New(cfg)
	if err != nil {
		logger.Error("failed to create server", "error", err.Error())
		os.Exit(1)
	}
	mcpServer := srv.GetMCPServer()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "stdio":
		logger.Info("starting in stdio mode", "workspace", cfg.Workspace)
		mcpServer.SetTransport(transport.NewStdioTransport())
		if err := mcpServer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server failed", "error", err.Error())
			os.Exit(1)
		}

	case "http":
		printBanner(cfg, *addr)
		logger.Info("starting in http mode", "addr", *addr, "workspace", cfg.Workspace)
		if err := runHTTPServer(ctx, mcpServer, logger, *addr); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("http server failed", "error", err.Error())
			os.Exit(1)
		}

	default:
		logger.Error("invalid mode, use 'stdio' or 'http'", "mode", *mode)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

// printBanner writes a human-facing startup summary to stderr. stdout
// stays reserved for protocol traffic.
func printBanner(cfg *config.Config, addr string) {
	bold := color.New(color.Bold, color.FgCyan)
	_, _ = bold.Fprintln(os.Stderr, "Bitbucket MCP Server")
	_, _ = color.New(color.FgHiBlack).Fprintf(os.Stderr, "  workspace %s, listening on %s\n", cfg.Workspace, addr)
}

func runHTTPServer(ctx context.Context, mcpServer *server.Server, logger logging.Logger, addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Options("/mcp", func(w http.ResponseWriter, _ *http.Request) {
		setCORSHeaders(w)
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/mcp", func(w http.ResponseWriter, req *http.Request) {
		setCORSHeaders(w)
		w.Header().Set("Content-Type", "application/json")

		var rpcReq protocol.JSONRPCRequest
		if err := json.NewDecoder(req.Body).Decode(&rpcReq); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		resp := mcpServer.HandleRequest(req.Context(), &rpcReq)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", "error", err.Error())
		}
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
