// Package openapi loads and flattens OpenAPI 3 documents into the raw
// operation records the adapter consumes. All reference resolution happens
// here; downstream code never sees a $ref marker.
package openapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// Loader reads an OpenAPI document from a file path or an http(s) URL.
type Loader struct {
	// BaseURLOverride replaces the document's declared server URL when set.
	BaseURLOverride string

	log logging.Logger
}

func NewLoader(log logging.Logger) *Loader {
	return &Loader{log: log.WithName("openapi")}
}

// Document wraps a validated, dereferenced OpenAPI document.
type Document struct {
	Title   string
	Version string
	BaseURL string

	doc *openapi3.T
	log logging.Logger
}

// Load reads, parses and validates the document at the given location.
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	kin := openapi3.NewLoader()
	kin.Context = ctx
	kin.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		var u *url.URL
		u, err = url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse spec URL %q: %w", location, err)
		}
		doc, err = kin.LoadFromURI(u)
	} else {
		doc, err = kin.LoadFromFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI document %q: %w", location, err)
	}
	return l.wrap(ctx, doc)
}

// LoadFromData parses and validates an in-memory document.
func (l *Loader) LoadFromData(ctx context.Context, data []byte) (*Document, error) {
	kin := openapi3.NewLoader()
	kin.Context = ctx
	kin.IsExternalRefsAllowed = true

	doc, err := kin.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("load OpenAPI document: %w", err)
	}
	return l.wrap(ctx, doc)
}

func (l *Loader) wrap(ctx context.Context, doc *openapi3.T) (*Document, error) {
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate OpenAPI document: %w", err)
	}

	base := l.BaseURLOverride
	if base == "" && len(doc.Servers) > 0 {
		base = doc.Servers[0].URL
	}
	base = strings.TrimRight(base, "/")

	out := &Document{BaseURL: base, doc: doc, log: l.log}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.Version = doc.Info.Version
	}
	l.log.Info("loaded OpenAPI document", "title", out.Title, "version", out.Version, "base_url", base)
	return out, nil
}
