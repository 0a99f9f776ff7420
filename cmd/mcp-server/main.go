package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/roivaz/openapi-mcp-bridge/internal/config"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
	"github.com/roivaz/openapi-mcp-bridge/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:   "mcp-server",
		Short: "Expose an OpenAPI-described HTTP API as an MCP server",
		RunE:  run,
	}

	root.PersistentFlags().String(config.KeySpecLocation, "", "OpenAPI document location (file path or http(s) URL)")
	root.PersistentFlags().String(config.KeyBaseURL, "", "Base URL override for outbound API requests")
	root.PersistentFlags().String(config.KeyOverridesFile, "", "YAML file with per-operation extension overrides")
	root.PersistentFlags().String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String(config.KeyHTTPHost, "0.0.0.0", "HTTP host")
	root.PersistentFlags().Int(config.KeyHTTPPort, 8000, "HTTP port")
	root.PersistentFlags().String(config.KeyEndpointPath, "/mcp/jsonrpc", "MCP endpoint path")
	root.PersistentFlags().Bool(config.KeyStdio, false, "Serve over stdio instead of HTTP")
	root.PersistentFlags().Int(config.KeyRequestTimeout, 30, "Outbound request timeout in seconds")
	root.PersistentFlags().String(config.KeyServerName, "openapi-mcp-bridge", "Name advertised to MCP clients")
	root.PersistentFlags().StringSlice(config.KeyStaticHeaders, nil, "Static KEY=VALUE headers added to every outbound request")

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := logging.New(logging.ForLevel(config.LogLevel())).WithName("mcp-server")

	cfg, err := mcp.DefaultConfig(cmd.Context(), logger)
	if err != nil {
		return err
	}
	srv := mcp.New(cfg)

	if config.Stdio() {
		logger.Info("serving MCP over stdio")
		return mcpserver.ServeStdio(srv.MCP)
	}

	addr := config.HTTPHost() + ":" + strconv.Itoa(config.HTTPPort())
	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", addr, "endpoint", config.EndpointPath())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
