package storage

import (
	"encoding/json"
	"fmt"

	"github.com/josiasmanzur02/sevenminutes/internal"
)

// deepMerge reconciles a stored record onto defaults: objects are
// merged key-by-key, arrays are replaced wholesale, anything absent in
// the patch keeps the base value. This lets the schema grow without a
// hard migration step as long as new fields have defaults.
func deepMerge(base, patch any) any {
	baseMap, baseOK := base.(map[string]any)
	patchMap, patchOK := patch.(map[string]any)
	if !baseOK || !patchOK {
		if patch == nil {
			return base
		}
		return patch
	}
	out := make(map[string]any, len(baseMap))
	for k, v := range baseMap {
		out[k] = v
	}
	for k, v := range patchMap {
		out[k] = deepMerge(baseMap[k], v)
	}
	return out
}

// mergeOntoDefaults fills every missing field of a decoded record from
// the compiled-in defaults and re-types the result as an AppState.
func mergeOntoDefaults(patch map[string]any) (*internal.AppState, error) {
	defaults, err := json.Marshal(internal.DefaultState())
	if err != nil {
		return nil, err
	}
	var base map[string]any
	if err := json.Unmarshal(defaults, &base); err != nil {
		return nil, err
	}
	merged, ok := deepMerge(base, patch).(map[string]any)
	if !ok {
		merged = base
	}
	buf, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	var out internal.AppState
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("state record does not match schema: %w", err)
	}
	if out.ID == "" {
		out.ID = internal.StateID
	}
	if out.SchemaVersion == 0 {
		out.SchemaVersion = internal.SchemaVersion
	}
	return &out, nil
}

// decodeImport parses an exported payload. A missing or non-numeric
// schemaVersion rejects the whole file; all other fields are optional
// and defaulted.
func decodeImport(raw []byte) (*internal.AppState, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", internal.ErrInvalidImport, err)
	}
	if obj == nil {
		return nil, internal.ErrInvalidImport
	}
	if _, ok := obj["schemaVersion"].(float64); !ok {
		return nil, internal.ErrInvalidImport
	}
	return mergeOntoDefaults(obj)
}
