package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// RequestDescriptor is a fully resolved outbound request value. It performs
// no I/O itself and is safe to serialize or log.
type RequestDescriptor struct {
	URL     string
	Method  string
	Headers http.Header
	Body    []byte
}

// MissingPathParamError reports a path parameter required by the URI
// template but absent from the path bucket.
type MissingPathParamError struct {
	Name string
}

func (e *MissingPathParamError) Error() string {
	return fmt.Sprintf("missing required path parameter %q", e.Name)
}

// BuildRequest expands the operation's URI template with the path bucket,
// serializes the query bucket, and selects the body encoding. It never
// opens a socket.
func BuildRequest(v *OperationView, b BucketedArguments, log logging.Logger) (RequestDescriptor, error) {
	vars := uritemplate.Values{}
	for _, name := range v.pathTemplate.Varnames() {
		value, ok := b.Path[name]
		if !ok {
			return RequestDescriptor{}, &MissingPathParamError{Name: name}
		}
		vars[name] = uritemplate.String(value)
	}
	expanded, err := v.pathTemplate.Expand(vars)
	if err != nil {
		return RequestDescriptor{}, fmt.Errorf("expand path template %q: %w", v.Path, err)
	}

	full := v.BaseURL + expanded
	u, err := url.Parse(full)
	if err != nil {
		return RequestDescriptor{}, fmt.Errorf("parse request URL %q: %w", full, err)
	}

	if len(b.Query) > 0 {
		q := u.Query()
		for name, value := range b.Query {
			if list, ok := value.([]any); ok {
				for _, item := range list {
					q.Add(name, stringifyArg(item))
				}
				continue
			}
			q.Add(name, stringifyArg(value))
		}
		u.RawQuery = q.Encode()
	}

	headers := http.Header{}
	for name, value := range b.Header {
		headers.Set(name, value)
	}
	if len(b.Cookie) > 0 {
		headers.Set("Cookie", encodeCookies(b.Cookie))
	}

	var body []byte
	switch {
	case b.Form != nil:
		body = []byte(b.Form.Encode())
		headers.Set("Content-Type", ContentTypeForm)
	case b.Body != nil:
		if text, ok := b.Body.(string); ok {
			// Verbatim string bodies carry no forced content type.
			body = []byte(text)
		} else {
			body, err = json.Marshal(b.Body)
			if err != nil {
				return RequestDescriptor{}, fmt.Errorf("encode request body: %w", err)
			}
			headers.Set("Content-Type", ContentTypeJSON)
		}
	}

	desc := RequestDescriptor{
		URL:     u.String(),
		Method:  v.Verb.Method(),
		Headers: headers,
		Body:    body,
	}
	log.Debug("built request", "operation", v.ID, "method", desc.Method, "url", desc.URL, "body_bytes", len(body))
	return desc, nil
}

func encodeCookies(cookies map[string]string) string {
	names := make([]string, 0, len(cookies))
	for name := range cookies {
		names = append(names, name)
	}
	sort.Strings(names)
	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+cookies[name])
	}
	return strings.Join(pairs, "; ")
}
