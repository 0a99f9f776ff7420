package invoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// HTTPExecutor is the net/http Fetcher. Static headers configured at
// construction are injected on every request without overriding headers the
// request descriptor already carries.
type HTTPExecutor struct {
	client *http.Client
	static http.Header
	log    logging.Logger
}

func NewHTTPExecutor(timeout time.Duration, staticHeaders map[string]string, log logging.Logger) *HTTPExecutor {
	static := make(http.Header, len(staticHeaders))
	for name, value := range staticHeaders {
		static.Set(name, value)
	}
	return &HTTPExecutor{
		client: &http.Client{Timeout: timeout},
		static: static,
		log:    log.WithName("httpexec"),
	}
}

func (e *HTTPExecutor) Fetch(ctx context.Context, req adapter.RequestDescriptor) (adapter.HTTPResponse, error) {
	// Invocation-scoped loggers (operation id and friends) travel through
	// the context; fall back to the constructor logger otherwise.
	log := logging.FromContextOr(ctx, e.log)

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return adapter.HTTPResponse{}, fmt.Errorf("build request: %w", err)
	}
	for name, values := range req.Headers {
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}
	for name, values := range e.static {
		if httpReq.Header.Get(name) != "" {
			continue
		}
		for _, value := range values {
			httpReq.Header.Add(name, value)
		}
	}

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		log.Error(err, "request failed", "method", req.Method, "url", req.URL, "duration", duration.String())
		return adapter.HTTPResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return adapter.HTTPResponse{}, fmt.Errorf("read response body: %w", err)
	}

	log.Debug("request completed",
		"method", req.Method, "url", req.URL,
		"status", resp.StatusCode, "duration", duration.String(), "bytes", len(body))

	return adapter.HTTPResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
