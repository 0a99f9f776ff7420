package openapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
)

// extensionKey is the vendor extension consulted for per-operation overrides.
const extensionKey = "x-mcp"

// Operations flattens the document into raw operation records, in a stable
// path-then-method order. Operations with unresolvable schemas are logged
// and skipped; they never abort the load.
func (d *Document) Operations() []adapter.Operation {
	var ops []adapter.Operation
	if d.doc.Paths == nil {
		return ops
	}

	paths := d.doc.Paths.Map()
	pathKeys := make([]string, 0, len(paths))
	for path := range paths {
		pathKeys = append(pathKeys, path)
	}
	sort.Strings(pathKeys)

	for _, path := range pathKeys {
		item := paths[path]
		if item == nil {
			continue
		}
		for _, entry := range operationsByMethod(item) {
			record, err := d.buildOperation(entry.method, path, item, entry.op)
			if err != nil {
				d.log.Error(err, "skipping operation", "method", entry.method, "path", path)
				continue
			}
			ops = append(ops, record)
		}
	}
	return ops
}

type methodOperation struct {
	method string
	op     *openapi3.Operation
}

func operationsByMethod(item *openapi3.PathItem) []methodOperation {
	candidates := []methodOperation{
		{"get", item.Get},
		{"put", item.Put},
		{"post", item.Post},
		{"delete", item.Delete},
		{"options", item.Options},
		{"head", item.Head},
		{"patch", item.Patch},
		{"trace", item.Trace},
	}
	out := candidates[:0]
	for _, c := range candidates {
		if c.op != nil {
			out = append(out, c)
		}
	}
	return out
}

func (d *Document) buildOperation(method, path string, item *openapi3.PathItem, op *openapi3.Operation) (adapter.Operation, error) {
	params, err := d.buildParameters(item.Parameters, op.Parameters)
	if err != nil {
		return adapter.Operation{}, err
	}

	body, err := d.buildRequestBody(op.RequestBody)
	if err != nil {
		return adapter.Operation{}, err
	}

	base := d.BaseURL
	if d.BaseURL == "" || overridesServer(op.Servers) {
		if op.Servers != nil && len(*op.Servers) > 0 {
			base = strings.TrimRight((*op.Servers)[0].URL, "/")
		}
	}

	return adapter.Operation{
		Method:      method,
		Path:        path,
		BaseURL:     base,
		OperationID: operationID(method, path, op),
		Summary:     op.Summary,
		Description: op.Description,
		Parameters:  params,
		RequestBody: body,
		Responses:   d.buildResponseHints(op.Responses),
		Extensions:  op.Extensions[extensionKey],
	}, nil
}

// buildParameters merges path-item level parameters with operation level
// ones; an operation parameter replaces a path-item parameter sharing its
// name and location.
func (d *Document) buildParameters(shared, own openapi3.Parameters) ([]adapter.Parameter, error) {
	type key struct{ name, in string }
	seen := map[key]int{}
	var out []adapter.Parameter

	add := func(refs openapi3.Parameters) error {
		for _, ref := range refs {
			if ref == nil {
				continue
			}
			if ref.Value == nil {
				return fmt.Errorf("unresolved parameter reference %q", ref.Ref)
			}
			p := ref.Value
			schema, err := marshalSchemaRef(p.Schema)
			if err != nil {
				return fmt.Errorf("parameter %q: %w", p.Name, err)
			}
			param := adapter.Parameter{
				Name:     p.Name,
				Location: adapter.Location(p.In),
				Required: p.Required,
				Schema:   schema,
			}
			k := key{p.Name, p.In}
			if idx, ok := seen[k]; ok {
				out[idx] = param
				continue
			}
			seen[k] = len(out)
			out = append(out, param)
		}
		return nil
	}

	if err := add(shared); err != nil {
		return nil, err
	}
	if err := add(own); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Document) buildRequestBody(ref *openapi3.RequestBodyRef) (*adapter.RequestBody, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Value == nil {
		return nil, fmt.Errorf("unresolved request body reference %q", ref.Ref)
	}

	content := make(map[string]json.RawMessage, len(ref.Value.Content))
	for ct, media := range ref.Value.Content {
		schema, err := marshalSchemaRef(media.Schema)
		if err != nil {
			return nil, fmt.Errorf("request body %q: %w", ct, err)
		}
		content[ct] = schema
	}
	return &adapter.RequestBody{Required: ref.Value.Required, Content: content}, nil
}

func (d *Document) buildResponseHints(responses *openapi3.Responses) []adapter.ResponseHint {
	if responses == nil {
		return nil
	}
	byStatus := responses.Map()
	statuses := make([]string, 0, len(byStatus))
	for status := range byStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	var hints []adapter.ResponseHint
	for _, status := range statuses {
		ref := byStatus[status]
		if ref == nil || ref.Value == nil {
			continue
		}
		contentTypes := make([]string, 0, len(ref.Value.Content))
		for ct := range ref.Value.Content {
			contentTypes = append(contentTypes, ct)
		}
		sort.Strings(contentTypes)
		for _, ct := range contentTypes {
			hint := adapter.ResponseHint{Status: status, ContentType: ct}
			if media := ref.Value.Content[ct]; media.Schema != nil && media.Schema.Value != nil {
				hint.SchemaFormat = media.Schema.Value.Format
			}
			hints = append(hints, hint)
		}
	}
	return hints
}

// marshalSchemaRef renders a dereferenced schema as a standalone JSON schema
// fragment. A reference without a resolved value is a loader defect.
func marshalSchemaRef(ref *openapi3.SchemaRef) (json.RawMessage, error) {
	if ref == nil {
		return nil, nil
	}
	if ref.Value == nil {
		return nil, fmt.Errorf("unresolved schema reference %q", ref.Ref)
	}
	data, err := ref.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("serialize schema: %w", err)
	}
	return data, nil
}

// operationID prefers the declared operationId and otherwise derives a
// stable identifier from the method and path (get /test/{id} -> get_test_id).
func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	replacer := strings.NewReplacer("{", "", "}", "", "/", "_", "-", "_", ".", "_")
	cleaned := replacer.Replace(strings.Trim(path, "/"))
	if cleaned == "" {
		return strings.ToLower(method) + "_root"
	}
	return strings.ToLower(method) + "_" + cleaned
}

func overridesServer(servers *openapi3.Servers) bool {
	return servers != nil && len(*servers) > 0
}
