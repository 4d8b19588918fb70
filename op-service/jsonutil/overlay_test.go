package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlay(t *testing.T) {
	t.Run("sets and replaces fields", func(t *testing.T) {
		out, err := Overlay(json.RawMessage(`{"a":1,"b":"x","big":123456789012345678901234567890}`),
			map[string]any{"b": "y", "c": true}, map[string]any{"b": "z"})
		require.NoError(t, err)
		require.JSONEq(t, `{"a":1,"b":"z","c":true,"big":123456789012345678901234567890}`, string(out))
	})

	t.Run("no fields", func(t *testing.T) {
		out, err := Overlay(json.RawMessage(`{"a":[1,2]}`))
		require.NoError(t, err)
		require.JSONEq(t, `{"a":[1,2]}`, string(out))
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := Overlay(json.RawMessage(`[1]`), map[string]any{"a": 1})
		require.ErrorContains(t, err, "failed to decode JSON object")
		_, err = Overlay(json.RawMessage(`null`), map[string]any{"a": 1})
		require.ErrorContains(t, err, "cannot overlay fields")
	})

	t.Run("unencodable field", func(t *testing.T) {
		_, err := Overlay(json.RawMessage(`{}`), map[string]any{"f": func() {}})
		require.ErrorContains(t, err, `failed to encode field "f"`)
	})
}
