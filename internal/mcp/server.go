package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// Invoker is the slice of the invocation layer the server needs.
type Invoker interface {
	CallTool(ctx context.Context, view *adapter.OperationView, args map[string]any) (*mcp.CallToolResult, error)
	ReadResource(ctx context.Context, view *adapter.OperationView, uri string) ([]mcp.ResourceContents, error)
}

type Server struct {
	MCP     *server.MCPServer
	HTTP    *server.StreamableHTTPServer
	Handler http.Handler

	log logging.Logger
}

// New builds the MCP server and registers every operation view on its
// protocol surface: resource operations as resource templates, everything
// else as tools, honoring the ignore overrides.
func New(cfg Config) *Server {
	mcpServer := server.NewMCPServer(
		cfg.Name,
		cfg.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
	)

	log := cfg.Logger.WithName("mcp")
	for _, view := range cfg.Views {
		registerOperation(mcpServer, view, cfg.Invoker, log)
	}

	httpServer := server.NewStreamableHTTPServer(mcpServer, cfg.Options...)

	return &Server{
		MCP:     mcpServer,
		HTTP:    httpServer,
		Handler: httpServer,
		log:     log,
	}
}

func registerOperation(s *server.MCPServer, view *adapter.OperationView, inv Invoker, log logging.Logger) {
	if view.Extensions.Ignore == adapter.IgnoreAll {
		log.Debug("operation withheld from both surfaces", "id", view.ID)
		return
	}
	if view.IsResource {
		registerResource(s, view, inv, log)
		return
	}
	if view.Extensions.Ignore == adapter.IgnoreTool {
		log.Debug("operation withheld from tool surface", "id", view.ID)
		return
	}
	registerTool(s, view, inv, log)
}

func registerTool(s *server.MCPServer, view *adapter.OperationView, inv Invoker, log logging.Logger) {
	schema := view.ParameterSchema
	if schema == nil {
		// No declared arguments means "accept anything".
		schema = json.RawMessage(`{"type":"object"}`)
	}

	name := SanitizeName(view.ID)
	tool := mcp.NewToolWithRawSchema(name, view.Description, schema)
	hints := view.Hints(true)
	tool.Annotations = mcp.ToolAnnotation{
		Title:           name,
		ReadOnlyHint:    mcp.ToBoolPtr(hints.ReadOnly),
		DestructiveHint: mcp.ToBoolPtr(hints.Destructive),
		IdempotentHint:  mcp.ToBoolPtr(hints.Idempotent),
		OpenWorldHint:   mcp.ToBoolPtr(hints.OpenWorld),
	}

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return inv.CallTool(ctx, view, req.GetArguments())
	})
	log.Debug("registered tool", "name", name, "method", view.Verb.Method(), "path", view.Path)
}

func registerResource(s *server.MCPServer, view *adapter.OperationView, inv Invoker, log logging.Logger) {
	template := mcp.NewResourceTemplate(
		view.ResourceURITemplate(),
		SanitizeName(view.ID),
		mcp.WithTemplateDescription(view.Description),
		mcp.WithTemplateMIMEType(view.ResponseContentType),
	)
	s.AddResourceTemplate(template, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return inv.ReadResource(ctx, view, req.Params.URI)
	})
	log.Debug("registered resource template", "name", view.ID, "uri", view.ResourceURITemplate())
}

var toolNameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SanitizeName maps an operation id onto the tool-name alphabet.
func SanitizeName(name string) string {
	cleaned := toolNameSanitizer.ReplaceAllString(name, "_")
	if cleaned == "" {
		return "_"
	}
	return cleaned
}
