package invoke

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// Fetcher executes one outbound request descriptor. Implementations own
// transport policy (timeouts, static headers); the invoker owns none.
type Fetcher interface {
	Fetch(ctx context.Context, req adapter.RequestDescriptor) (adapter.HTTPResponse, error)
}

// Invoker composes the per-invocation pipeline: bucket the arguments, build
// the request, fetch, translate the response. It holds no invocation state.
type Invoker struct {
	fetcher Fetcher
	log     logging.Logger
}

func New(fetcher Fetcher, log logging.Logger) *Invoker {
	return &Invoker{fetcher: fetcher, log: log.WithName("invoke")}
}

// CallTool runs one tool invocation against the upstream API. Upstream
// failure statuses come back as error envelopes; request construction
// failures (such as a missing required path parameter) and transport
// failures are returned as errors.
func (i *Invoker) CallTool(ctx context.Context, view *adapter.OperationView, args map[string]any) (*mcp.CallToolResult, error) {
	log := i.log.WithValues("operation", view.ID)
	ctx = logging.IntoContext(ctx, log)

	bucketed := view.BucketArguments(args, log)
	req, err := adapter.BuildRequest(view, bucketed, log)
	if err != nil {
		return nil, err
	}

	resp, err := i.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", req.Method, req.URL, err)
	}
	return adapter.TranslateToolResult(view, req.URL, resp, log), nil
}

// ReadResource resolves a concrete resource URI against the operation's URI
// template and performs the read.
func (i *Invoker) ReadResource(ctx context.Context, view *adapter.OperationView, uri string) ([]mcp.ResourceContents, error) {
	log := i.log.WithValues("operation", view.ID, "uri", uri)
	ctx = logging.IntoContext(ctx, log)

	pathArgs, ok := view.MatchResourceURI(uri)
	if !ok {
		return nil, fmt.Errorf("uri %q does not match resource %s", uri, view.ID)
	}
	args := make(map[string]any, len(pathArgs))
	for name, value := range pathArgs {
		args[name] = value
	}

	bucketed := view.BucketArguments(args, log)
	req, err := adapter.BuildRequest(view, bucketed, log)
	if err != nil {
		return nil, err
	}

	resp, err := i.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", req.Method, req.URL, err)
	}
	return adapter.TranslateResourceContents(view, uri, resp, log)
}
