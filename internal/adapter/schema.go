package adapter

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// selectBodyContent picks the request-body content type this adapter will
// speak: JSON when declared (exact or +json suffix), then form-urlencoded,
// then the lexicographically first declared type. An empty content map falls
// back to JSON with no schema.
func selectBodyContent(body *RequestBody) (string, json.RawMessage) {
	if body == nil {
		return "", nil
	}
	if schema, ok := body.Content[ContentTypeJSON]; ok {
		return ContentTypeJSON, schema
	}
	keys := make([]string, 0, len(body.Content))
	for ct := range body.Content {
		keys = append(keys, ct)
	}
	sort.Strings(keys)
	for _, ct := range keys {
		if strings.HasSuffix(ct, "+json") {
			return ct, body.Content[ct]
		}
	}
	if schema, ok := body.Content[ContentTypeForm]; ok {
		return ContentTypeForm, schema
	}
	if len(keys) > 0 {
		return keys[0], body.Content[keys[0]]
	}
	return ContentTypeJSON, nil
}

// schemaShape is the slice of a JSON schema the merge logic needs.
type schemaShape struct {
	Type       any                        `json:"type"`
	Properties map[string]json.RawMessage `json:"properties"`
	Required   []string                   `json:"required"`
}

func isObjectShape(s schemaShape) bool {
	if t, ok := s.Type.(string); ok && t == "object" {
		return true
	}
	return len(s.Properties) > 0
}

// BuildArgumentSchema merges parameter schemas and the selected request-body
// schema into one flat object schema for argument validation. Body entries
// overwrite same-named parameter entries. A non-object body surfaces as a
// synthetic "body" property. Nil means "no argument validation".
func BuildArgumentSchema(params []Parameter, bodySchema json.RawMessage, log logging.Logger) json.RawMessage {
	hasParams := len(params) > 0
	hasBody := len(bodySchema) > 0
	if !hasParams && !hasBody {
		return nil
	}

	var body schemaShape
	if hasBody {
		if err := json.Unmarshal(bodySchema, &body); err != nil {
			log.Error(err, "request body schema is not an object document, ignoring")
			hasBody = false
		}
	}

	if !hasParams && hasBody {
		if isObjectShape(body) {
			return bodySchema
		}
		return marshalSchema(map[string]any{
			"type":       "object",
			"properties": map[string]json.RawMessage{"body": bodySchema},
		}, log)
	}
	if !hasBody {
		if !hasParams {
			return nil
		}
		return marshalSchema(parameterObjectSchema(params), log)
	}

	merged := parameterObjectSchema(params)
	properties := merged["properties"].(map[string]json.RawMessage)
	required := merged["required"].([]string)

	if isObjectShape(body) {
		for name, schema := range body.Properties {
			properties[name] = schema
		}
		required = unionRequired(required, body.Required)
	} else {
		properties["body"] = bodySchema
	}

	out := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		out["required"] = required
	}
	return marshalSchema(out, log)
}

func parameterObjectSchema(params []Parameter) map[string]any {
	properties := make(map[string]json.RawMessage, len(params))
	required := make([]string, 0, len(params))
	for _, p := range params {
		schema := p.Schema
		if len(schema) == 0 {
			schema = json.RawMessage(`{}`)
		}
		properties[p.Name] = schema
		if p.Required {
			required = append(required, p.Name)
		}
	}
	out := map[string]any{"type": "object", "properties": properties, "required": required}
	return out
}

func unionRequired(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	for _, name := range base {
		seen[name] = true
	}
	for _, name := range extra {
		if !seen[name] {
			seen[name] = true
			base = append(base, name)
		}
	}
	return base
}

func marshalSchema(schema map[string]any, log logging.Logger) json.RawMessage {
	if req, ok := schema["required"].([]string); ok && len(req) == 0 {
		delete(schema, "required")
	}
	data, err := json.Marshal(schema)
	if err != nil {
		log.Error(err, "argument schema serialization failed, disabling validation")
		return nil
	}
	return data
}
