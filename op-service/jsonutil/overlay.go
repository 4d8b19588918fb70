package jsonutil

import (
	"encoding/json"
	"fmt"
)

// Overlay sets the given fields on a JSON-encoded object, replacing fields that are already present.
// Later field sets take precedence over earlier ones. Untouched fields keep their original encoding.
func Overlay(obj json.RawMessage, fields ...map[string]any) (json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(obj, &m); err != nil {
		return nil, fmt.Errorf("failed to decode JSON object: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("cannot overlay fields on JSON %s", obj)
	}
	for _, set := range fields {
		for k, v := range set {
			enc, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode field %q: %w", k, err)
			}
			m[k] = enc
		}
	}
	return json.Marshal(m)
}
