package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yosida95/uritemplate/v3"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// OperationView is the immutable per-operation product of classification.
// It is built once when the source document is loaded and may be read from
// any number of concurrent invocations.
type OperationView struct {
	Verb            Verb
	Safety          ChangeSafety
	Extensions      OperationExtensions
	ParameterSchema json.RawMessage
	IsResource      bool
	ID              string
	Description     string

	// ResponseContentType is the preferred content type used when
	// translating responses; ResponseBinary marks a declared binary
	// success response (resource reads return base64 blobs).
	ResponseContentType string
	ResponseBinary      bool

	Path            string
	BaseURL         string
	Parameters      []Parameter
	BodyContentType string

	bodyDeclared     bool
	pathTemplate     *uritemplate.Template
	resourceTemplate *uritemplate.Template
}

// NewOperationView classifies a raw operation record. An unsupported HTTP
// verb or an unparseable path template yields an error; the caller is
// expected to skip the operation rather than abort the load.
func NewOperationView(op Operation, log logging.Logger) (*OperationView, error) {
	verb, safety, err := ClassifyVerb(op.Method)
	if err != nil {
		return nil, err
	}

	ext := ResolveExtensions(op.Extensions, log)
	if ext.Safety != nil {
		safety = *ext.Safety
	}

	bodyCT, bodySchema := selectBodyContent(op.RequestBody)

	view := &OperationView{
		Verb:            verb,
		Safety:          safety,
		Extensions:      ext,
		ParameterSchema: BuildArgumentSchema(op.Parameters, bodySchema, log),
		ID:              resolveID(ext, op),
		Description:     resolveDescription(ext, op),
		Path:            op.Path,
		BaseURL:         strings.TrimRight(op.BaseURL, "/"),
		Parameters:      op.Parameters,
		BodyContentType: bodyCT,
		bodyDeclared:    op.HasBody(),
	}
	view.IsResource = classifyResource(view)
	view.ResponseContentType, view.ResponseBinary = preferredResponse(op, bodyCT)

	view.pathTemplate, err = uritemplate.New(op.Path)
	if err != nil {
		return nil, fmt.Errorf("parse path template %q: %w", op.Path, err)
	}
	if view.IsResource {
		view.resourceTemplate, err = uritemplate.New(view.BaseURL + op.Path)
		if err != nil {
			return nil, fmt.Errorf("parse resource template %q: %w", view.BaseURL+op.Path, err)
		}
	}

	log.Debug("classified operation",
		"id", view.ID, "method", verb.Method(), "path", op.Path,
		"resource", view.IsResource, "safety", string(safety.Kind))
	return view, nil
}

// BuildViews classifies a batch of raw operation records. Operations with
// unsupported verbs or unparseable templates are logged and skipped; a
// partial document still loads.
func BuildViews(ops []Operation, log logging.Logger) []*OperationView {
	views := make([]*OperationView, 0, len(ops))
	for _, op := range ops {
		view, err := NewOperationView(op, log)
		if err != nil {
			log.Info("skipping operation", "method", op.Method, "path", op.Path, "reason", err.Error())
			continue
		}
		views = append(views, view)
	}
	return views
}

// HasBody reports whether the underlying operation declares a request body.
func (v *OperationView) HasBody() bool {
	return v.bodyDeclared
}

// ResourceURITemplate returns the RFC 6570 template identifying this
// operation as a URI-addressable resource. Empty for non-resources.
func (v *OperationView) ResourceURITemplate() string {
	if v.resourceTemplate == nil {
		return ""
	}
	return v.BaseURL + v.Path
}

// MatchResourceURI extracts path arguments from a concrete resource URI.
// The second result is false when the URI does not match this operation.
func (v *OperationView) MatchResourceURI(uri string) (map[string]string, bool) {
	if v.resourceTemplate == nil {
		return nil, false
	}
	values := v.resourceTemplate.Match(uri)
	if values == nil {
		return nil, false
	}
	args := make(map[string]string, len(values))
	for _, name := range v.resourceTemplate.Varnames() {
		args[name] = values.Get(name).String()
	}
	return args, true
}

// Hints derives the annotation tuple for this operation. openWorld defaults
// to true at the call sites that have no reason to claim otherwise.
func (v *OperationView) Hints(openWorld bool) Hints {
	return v.Safety.Hints(openWorld)
}

// classifyResource holds iff the verb is GET, every declared parameter lives
// in the path, no request body is declared, and the extensions neither hide
// the resource surface nor declare non-readonly safety.
func classifyResource(v *OperationView) bool {
	if v.Verb != VerbGet || v.bodyDeclared {
		return false
	}
	for _, p := range v.Parameters {
		if p.Location != LocationPath {
			return false
		}
	}
	if v.Extensions.Ignore == IgnoreResource || v.Extensions.Ignore == IgnoreAll {
		return false
	}
	return v.Safety.Kind == SafetyReadOnly
}

func resolveID(ext OperationExtensions, op Operation) string {
	if ext.OperationID != "" {
		return ext.OperationID
	}
	return op.OperationID
}

func resolveDescription(ext OperationExtensions, op Operation) string {
	if ext.Description != "" {
		return ext.Description
	}
	if op.Description != "" {
		return op.Description
	}
	return op.Summary
}

// preferredResponse picks the content type responses are translated under:
// JSON when the operation declares a JSON response or request, then
// form-urlencoded, then plain text. The second result reports a declared
// binary success payload.
func preferredResponse(op Operation, bodyCT string) (string, bool) {
	preferred := ""
	binary := false
	for _, hint := range op.Responses {
		if !successStatus(hint.Status) {
			continue
		}
		if hint.SchemaFormat == "binary" {
			binary = true
		}
		switch {
		case isJSONContentType(hint.ContentType):
			preferred = ContentTypeJSON
		case hint.ContentType == ContentTypeForm && preferred == "":
			preferred = ContentTypeForm
		}
	}
	if preferred == "" && isJSONContentType(bodyCT) {
		preferred = ContentTypeJSON
	}
	if preferred == "" && bodyCT == ContentTypeForm {
		preferred = ContentTypeForm
	}
	if preferred == "" {
		preferred = "text/plain"
	}
	return preferred, binary
}

func isJSONContentType(ct string) bool {
	return ct == ContentTypeJSON || strings.HasSuffix(ct, "+json")
}

func successStatus(status string) bool {
	return status == "default" || strings.HasPrefix(status, "2")
}
