package engine

import (
	"encoding/json"
	"fmt"
)

// ValueKind discriminates the closed set of settings value types.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindMap
)

// Value is one game setting: a string, a number, a bool, or a nested map of
// further values. Keeping the variant closed preserves forward-compatible
// settings without falling back to untyped JSON.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	Map  map[string]Value
}

// Settings is the open-ended per-game settings record.
type Settings map[string]Value

func String(s string) Value        { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value       { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// DefaultSettings returns the settings a game starts with unless the creator
// overrides them.
func DefaultSettings() Settings {
	return Settings{
		"difficulty": String("medium"),
		"timeLimit":  Number(300),
	}
}

// Merge returns a copy of s with the entries of overrides applied on top.
func (s Settings) Merge(overrides Settings) Settings {
	merged := make(Settings, len(s)+len(overrides))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// MarshalJSON encodes the variant as its plain JSON counterpart.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindMap:
		return json.Marshal(v.Map)
	default:
		return nil, fmt.Errorf("settings: unknown value kind %d", v.Kind)
	}
}

// UnmarshalJSON accepts a string, number, bool, or object. Anything else
// (arrays, null) is rejected to keep the variant closed.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = Bool(t)
	case map[string]any:
		m := make(map[string]Value, len(t))
		for key, val := range t {
			nested, err := json.Marshal(val)
			if err != nil {
				return err
			}
			var nv Value
			if err := nv.UnmarshalJSON(nested); err != nil {
				return fmt.Errorf("settings: key %q: %w", key, err)
			}
			m[key] = nv
		}
		*v = Map(m)
	default:
		return fmt.Errorf("settings: unsupported value %s", string(data))
	}
	return nil
}
