package openapi

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/roivaz/openapi-mcp-bridge/internal/adapter"
	"github.com/roivaz/openapi-mcp-bridge/internal/logging"
)

// Overrides maps an operation's document identifier to a vendor-extension
// override object in the same shape as the in-document x-mcp blob.
type Overrides map[string]map[string]any

// LoadOverrides reads an overrides YAML file. It lets users rename, ignore
// or annotate operations of documents they do not own.
func LoadOverrides(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides file %q: %w", path, err)
	}
	var out Overrides
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse overrides file %q: %w", path, err)
	}
	return out, nil
}

// ApplyOverrides shallow-merges override keys over each matching operation's
// extension blob. Override keys win over in-document keys.
func ApplyOverrides(ops []adapter.Operation, overrides Overrides, log logging.Logger) {
	if len(overrides) == 0 {
		return
	}
	for i := range ops {
		override, ok := overrides[ops[i].OperationID]
		if !ok {
			continue
		}
		merged := map[string]any{}
		if base, ok := ops[i].Extensions.(map[string]any); ok {
			for k, v := range base {
				merged[k] = v
			}
		} else if ops[i].Extensions != nil {
			log.Debug("replacing non-object extension blob with override", "operation", ops[i].OperationID)
		}
		for k, v := range override {
			merged[k] = v
		}
		ops[i].Extensions = merged
		log.Debug("applied extension override", "operation", ops[i].OperationID)
	}
}
