package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/config"
	"github.com/roivaz/openapi-mcp-bridge/internal/invoke"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
	"github.com/roivaz/openapi-mcp-bridge/internal/openapi"
)

type Config struct {
	Name    string
	Version string
	Views   []*adapter.OperationView
	Invoker Invoker
	Options []server.StreamableHTTPOption
	Logger  logging.Logger
}

// DefaultConfig assembles the server configuration from the process
// configuration: load and flatten the OpenAPI document, apply extension
// overrides, classify operations, and wire the HTTP executor.
func DefaultConfig(ctx context.Context, log logging.Logger) (Config, error) {
	location := config.SpecLocation()
	if location == "" {
		return Config{}, fmt.Errorf("no OpenAPI document configured (set %s)", config.KeySpecLocation)
	}

	loader := openapi.NewLoader(log)
	loader.BaseURLOverride = config.BaseURL()
	doc, err := loader.Load(ctx, location)
	if err != nil {
		return Config{}, err
	}

	ops := doc.Operations()
	if path := config.OverridesFile(); path != "" {
		overrides, err := openapi.LoadOverrides(path)
		if err != nil {
			return Config{}, err
		}
		openapi.ApplyOverrides(ops, overrides, log)
	}

	views := adapter.BuildViews(ops, log)
	log.Info("prepared operations", "total", len(ops), "registered", len(views))

	fetcher := invoke.NewHTTPExecutor(config.RequestTimeout(), config.StaticHeaders(), log)

	name := config.ServerName()
	version := doc.Version
	if version == "" {
		version = "0.0.0"
	}

	return Config{
		Name:    name,
		Version: version,
		Views:   views,
		Invoker: invoke.New(fetcher, log),
		Options: []server.StreamableHTTPOption{
			server.WithEndpointPath(config.EndpointPath()),
			server.WithStateLess(true),
		},
		Logger: log,
	}, nil
}
