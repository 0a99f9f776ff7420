package adapter

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// HTTPResponse is the fully read upstream response handed to translation.
type HTTPResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// TranslateToolResult converts an upstream HTTP response into a tool result
// envelope. Upstream failure statuses and undecodable payloads both become
// error envelopes; this function never returns a Go error.
func TranslateToolResult(v *OperationView, requestURL string, resp HTTPResponse, log logging.Logger) *mcp.CallToolResult {
	if resp.StatusCode >= 400 {
		log.Debug("upstream returned error status", "operation", v.ID, "status", resp.StatusCode)
		return mcp.NewToolResultError(string(resp.Body))
	}

	switch v.ResponseContentType {
	case ContentTypeJSON:
		// 201/204 style successes carry no payload to decode.
		if len(bytes.TrimSpace(resp.Body)) == 0 {
			return mcp.NewToolResultText("")
		}
		var decoded any
		if err := json.Unmarshal(resp.Body, &decoded); err != nil {
			log.Error(err, "response JSON decode failed", "operation", v.ID, "url", requestURL)
			return mcp.NewToolResultError(fmt.Sprintf("invalid JSON response from %s: %v", requestURL, err))
		}
		normalized, err := json.Marshal(decoded)
		if err != nil {
			log.Error(err, "response JSON re-serialization failed", "operation", v.ID)
			return mcp.NewToolResultError(fmt.Sprintf("unserializable JSON response from %s: %v", requestURL, err))
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.EmbeddedResource{
					Type: "resource",
					Resource: mcp.TextResourceContents{
						URI:      requestURL,
						MIMEType: ContentTypeJSON,
						Text:     string(normalized),
					},
				},
			},
		}

	case ContentTypeForm:
		fields, err := url.ParseQuery(string(resp.Body))
		if err != nil {
			log.Error(err, "response form decode failed", "operation", v.ID, "url", requestURL)
			return mcp.NewToolResultError(fmt.Sprintf("invalid form response from %s: %v", requestURL, err))
		}
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		content := make([]mcp.Content, 0, len(names))
		for _, name := range names {
			for _, value := range fields[name] {
				content = append(content, mcp.EmbeddedResource{
					Type: "resource",
					Resource: mcp.TextResourceContents{
						URI:      requestURL,
						MIMEType: ContentTypeForm,
						Text:     name + "=" + value,
					},
				})
			}
		}
		return &mcp.CallToolResult{Content: content}

	default:
		return mcp.NewToolResultText(string(resp.Body))
	}
}

// TranslateResourceContents converts an upstream HTTP response into resource
// contents for a resource read. Text payloads are returned verbatim; a
// declared binary payload is base64-encoded into the blob field. Failure
// statuses surface as caller-visible errors.
func TranslateResourceContents(v *OperationView, uri string, resp HTTPResponse, log logging.Logger) ([]mcp.ResourceContents, error) {
	if resp.StatusCode >= 400 {
		log.Debug("resource read returned error status", "operation", v.ID, "status", resp.StatusCode)
		return nil, fmt.Errorf("resource read failed with status %d: %s", resp.StatusCode, string(resp.Body))
	}

	mimeType := responseMIMEType(resp.Header, v.ResponseContentType)
	if v.ResponseBinary {
		return []mcp.ResourceContents{
			mcp.BlobResourceContents{
				URI:      uri,
				MIMEType: mimeType,
				Blob:     base64.StdEncoding.EncodeToString(resp.Body),
			},
		}, nil
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeType,
			Text:     string(resp.Body),
		},
	}, nil
}

func responseMIMEType(header http.Header, fallback string) string {
	ct := header.Get("Content-Type")
	if ct == "" {
		return fallback
	}
	if idx := strings.IndexByte(ct, ';'); idx >= 0 {
		ct = ct[:idx]
	}
	return strings.TrimSpace(ct)
}
