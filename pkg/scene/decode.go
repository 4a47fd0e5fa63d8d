package scene

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
)

var vecType = reflect.TypeOf(Vec{})

// vecHook accepts {x, y, z} maps as well as [x, y, z] lists.
func vecHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != vecType || from.Kind() != reflect.Map {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}
	var v Vec
	for i, key := range []string{"x", "y", "z"} {
		raw, ok := m[key]
		if !ok {
			continue
		}
		f, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		v[i] = f
	}
	return v, nil
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	}
	return 0, fmt.Errorf("expected a number, got %T", raw)
}

// Decode decodes loosely typed input (parsed YAML/JSON, frontmatter,
// request payloads) into out. Vectors may be lists or {x, y, z} maps and
// durations may be strings like "250ms".
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			vecHook,
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// FromMap decodes and validates a document from a generic map.
func FromMap(raw map[string]any) (*Document, error) {
	var doc Document
	if err := Decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
