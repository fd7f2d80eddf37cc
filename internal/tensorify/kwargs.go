package tensorify

import (
	"fmt"
	"maps"
)

// Kwargs carries the static, non-tensor configuration of an op call. The
// values are bound into the node's callback when the node is built.
type Kwargs map[string]any

// Clone returns a shallow copy of kw. A nil Kwargs clones to an empty map.
func (kw Kwargs) Clone() Kwargs {
	out := make(Kwargs, len(kw))
	maps.Copy(out, kw)
	return out
}

// Bool returns kw[key] as a bool, or def when the key is absent.
// Like the other getters it panics when the value has the wrong type; inside
// a graph callback the panic is reported as an execution error.
func (kw Kwargs) Bool(key string, def bool) bool {
	v, ok := kw[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		panic(fmt.Sprintf("kwarg %q is %T, not bool", key, v))
	}
	return b
}

// Int returns kw[key] as an int, or def when the key is absent.
// Any Go integer or integral float value is accepted.
func (kw Kwargs) Int(key string, def int) int {
	v, ok := kw[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
	}
	panic(fmt.Sprintf("kwarg %q is %T(%v), not an integer", key, v, v))
}

// Float returns kw[key] as a float64, or def when the key is absent.
func (kw Kwargs) Float(key string, def float64) float64 {
	v, ok := kw[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	panic(fmt.Sprintf("kwarg %q is %T, not a number", key, v))
}

// Str returns kw[key] as a string, or def when the key is absent.
func (kw Kwargs) Str(key, def string) string {
	v, ok := kw[key]
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok {
		panic(fmt.Sprintf("kwarg %q is %T, not string", key, v))
	}
	return s
}
