// Package patchsnapshot applies go-patch operation documents to collex
// snapshot values (FilterManagerSnapshot, SortManagerSnapshot,
// GroupSnapshot), letting a deployment ship a small YAML patch instead of a
// full replacement snapshot when only a few fields need to change.
package patchsnapshot

import (
	"encoding/json"
	"fmt"

	"github.com/cppforlife/go-patch/patch"
	"gopkg.in/yaml.v2"
)

// ParseOps parses a YAML document of go-patch operation definitions
// (the standard `- type: replace` / `path: /foo` shape) into an applyable
// patch.Ops.
func ParseOps(data []byte) (patch.Ops, error) {
	var opdefs []patch.OpDefinition
	if err := yaml.Unmarshal(data, &opdefs); err != nil {
		return nil, fmt.Errorf("patchsnapshot: parsing op definitions: %s", err)
	}
	ops, err := patch.NewOpsFromDefinitions(opdefs)
	if err != nil {
		return nil, fmt.Errorf("patchsnapshot: building ops: %s", err)
	}
	return ops, nil
}

// Apply runs ops against snapshot (any of collex's *Snapshot types, or a
// plain map), round-tripping through JSON so go-patch's map/slice path
// traversal operates on the same shape the snapshot's ToJSON would produce,
// then decodes the patched document back into out.
func Apply(ops patch.Ops, snapshot interface{}, out interface{}) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("patchsnapshot: marshalling snapshot: %s", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("patchsnapshot: unmarshalling snapshot: %s", err)
	}

	patched, err := ops.Apply(toYAMLKeyed(doc))
	if err != nil {
		return fmt.Errorf("patchsnapshot: applying ops: %s", err)
	}

	patchedJSON, err := json.Marshal(fromYAMLKeyed(patched))
	if err != nil {
		return fmt.Errorf("patchsnapshot: marshalling patched document: %s", err)
	}
	if err := json.Unmarshal(patchedJSON, out); err != nil {
		return fmt.Errorf("patchsnapshot: decoding patched document: %s", err)
	}
	return nil
}

// toYAMLKeyed recursively converts map[string]interface{} (json.Unmarshal's
// native map shape) into map[interface{}]interface{}, the shape go-patch's
// path traversal expects of YAML-style documents.
func toYAMLKeyed(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[interface{}]interface{}, len(t))
		for k, val := range t {
			out[k] = toYAMLKeyed(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = toYAMLKeyed(val)
		}
		return out
	default:
		return v
	}
}

// fromYAMLKeyed reverses toYAMLKeyed, so the result marshals cleanly back to
// JSON.
func fromYAMLKeyed(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[fmt.Sprintf("%v", k)] = fromYAMLKeyed(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, val := range t {
			out[i] = fromYAMLKeyed(val)
		}
		return out
	default:
		return v
	}
}
