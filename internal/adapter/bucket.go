package adapter

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// BucketedArguments is the flat argument map partitioned by transport
// location. When the operation declares a body, exactly one of Body and Form
// is populated (Body may be an empty object, Form an empty value set).
type BucketedArguments struct {
	Path   map[string]string
	Query  map[string]any
	Header map[string]string
	Cookie map[string]string
	Body   any
	Form   url.Values
}

// reservedArgKeys pass through to other layers and never count as leftovers.
var reservedArgKeys = map[string]bool{
	"body":     true,
	"formData": true,
	"auth":     true,
	"server":   true,
}

// BucketArguments partitions a flat argument map into the operation's
// declared transport locations. The input map is never mutated. Argument
// keys matching no declared parameter become body material when a body is
// declared, and are dropped otherwise.
func (v *OperationView) BucketArguments(args map[string]any, log logging.Logger) BucketedArguments {
	b := BucketedArguments{
		Path:   map[string]string{},
		Query:  map[string]any{},
		Header: map[string]string{},
		Cookie: map[string]string{},
	}

	consumed := make(map[string]bool, len(v.Parameters))
	for _, p := range v.Parameters {
		value, ok := args[p.Name]
		if !ok {
			continue
		}
		// Present counts as consumed even when the value carries nothing.
		consumed[p.Name] = true
		if value == nil {
			continue
		}
		switch p.Location {
		case LocationPath:
			b.Path[p.Name] = stringifyArg(value)
		case LocationQuery:
			b.Query[p.Name] = value
		case LocationHeader:
			b.Header[p.Name] = stringifyArg(value)
		case LocationCookie:
			b.Cookie[p.Name] = stringifyArg(value)
		}
	}

	leftovers := map[string]any{}
	for name, value := range args {
		if consumed[name] || reservedArgKeys[name] {
			continue
		}
		leftovers[name] = value
	}

	if !v.bodyDeclared {
		if len(leftovers) > 0 {
			log.Debug("dropping arguments with no declared destination", "operation", v.ID, "count", len(leftovers))
		}
		return b
	}

	if v.BodyContentType == ContentTypeForm {
		material := map[string]any{}
		if explicit, ok := args["formData"].(map[string]any); ok {
			for name, value := range explicit {
				material[name] = value
			}
		}
		// Leftovers win over explicit formData keys, same as the JSON merge.
		for name, value := range leftovers {
			material[name] = value
		}
		form := url.Values{}
		flattenForm(form, "", material)
		b.Form = form
		return b
	}

	if explicit, ok := args["body"]; ok && explicit != nil {
		if obj, ok := explicit.(map[string]any); ok {
			merged := make(map[string]any, len(obj)+len(leftovers))
			for name, value := range obj {
				merged[name] = value
			}
			for name, value := range leftovers {
				merged[name] = value
			}
			b.Body = merged
		} else {
			if len(leftovers) > 0 {
				log.Debug("explicit non-object body supplied, dropping leftover arguments", "operation", v.ID, "count", len(leftovers))
			}
			b.Body = explicit
		}
		return b
	}

	b.Body = leftovers
	return b
}

// flattenForm writes a JSON value into url-encoded form pairs, nesting keys
// with bracket notation (user[address][city]) and repeating array elements
// under the same key.
func flattenForm(values url.Values, key string, value any) {
	switch typed := value.(type) {
	case map[string]any:
		names := make([]string, 0, len(typed))
		for name := range typed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := name
			if key != "" {
				child = key + "[" + name + "]"
			}
			flattenForm(values, child, typed[name])
		}
	case []any:
		for _, item := range typed {
			flattenForm(values, key, item)
		}
	case nil:
	default:
		values.Add(key, stringifyArg(typed))
	}
}

// stringifyArg renders an argument for a string-valued transport location.
// Strings pass through untouched; composites fall back to their JSON form.
func stringifyArg(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case json.Number:
		return typed.String()
	default:
		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(data)
	}
}
