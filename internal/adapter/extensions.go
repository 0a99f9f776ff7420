package adapter

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// IgnoreScope narrows which protocol surface an operation is withheld from.
type IgnoreScope string

const (
	IgnoreNone     IgnoreScope = ""
	IgnoreResource IgnoreScope = "resource"
	IgnoreTool     IgnoreScope = "tool"
	IgnoreAll      IgnoreScope = "all"
)

// OperationExtensions is the typed form of the vendor-extension blob attached
// to an operation. Zero value means "no overrides".
type OperationExtensions struct {
	OperationID string
	Ignore      IgnoreScope
	Description string
	Safety      *ChangeSafety
}

// ResolveExtensions folds a raw vendor-extension value into a typed override
// record. It never fails: nil, primitives, arrays and malformed shapes all
// degrade to an empty (or partial) record. Only the four recognized top-level
// keys are read; everything else is dropped.
func ResolveExtensions(raw any, log logging.Logger) OperationExtensions {
	var ext OperationExtensions
	if raw == nil {
		return ext
	}

	data, err := json.Marshal(raw)
	if err != nil {
		log.Debug("extension blob not serializable, ignoring", "error", err.Error())
		return ext
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return ext
	}

	if id := doc.Get("operationId"); id.Exists() {
		// Only non-empty strings are honored; a numeric or object override
		// could never form a usable tool name.
		if id.Type == gjson.String && id.Str != "" {
			ext.OperationID = id.Str
		} else {
			log.Debug("dropping non-string operationId override", "value", id.Raw)
		}
	}

	switch ignore := doc.Get("ignore"); {
	case ignore.Type == gjson.True:
		ext.Ignore = IgnoreAll
	case ignore.Type == gjson.String && ignore.Str == string(IgnoreResource):
		ext.Ignore = IgnoreResource
	case ignore.Type == gjson.String && ignore.Str == string(IgnoreTool):
		ext.Ignore = IgnoreTool
	}

	if desc := doc.Get("description"); desc.Type == gjson.String && desc.Str != "" {
		ext.Description = desc.Str
	}

	if ann := doc.Get("annotations"); ann.IsObject() {
		safety := foldAnnotations(ann)
		ext.Safety = &safety
	}

	return ext
}

// foldAnnotations maps the readOnlyHint/destructiveHint pair into a safety
// value. destructiveHint:true wins over readOnlyHint:false.
func foldAnnotations(ann gjson.Result) ChangeSafety {
	if ann.Get("destructiveHint").Type == gjson.True {
		return DeleteSafety()
	}
	if ann.Get("readOnlyHint").Type == gjson.True {
		return ReadOnlySafety()
	}
	return UpdateSafety(false)
}
