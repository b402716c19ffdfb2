package config

import (
	"time"

	"github.com/spf13/cast"
)

// KeyLogLevel is the option that sets application log verbosity.
const KeyLogLevel = "log_level"

// Map is a plain key→value option mapping handed to applications and
// services. A nil Map behaves like an empty one.
type Map map[string]any

// Get returns the raw value stored under key.
func (m Map) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Has reports whether key is present.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// String returns key converted to a string, or def when absent or not convertible.
func (m Map) String(key, def string) string {
	v, ok := m[key]
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return def
	}
	return s
}

// Int returns key converted to an int, or def when absent or not convertible.
func (m Map) Int(key string, def int) int {
	v, ok := m[key]
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// Bool returns key converted to a bool, or def when absent or not convertible.
func (m Map) Bool(key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Duration returns key converted to a duration ("5s", 5000000000), or def.
func (m Map) Duration(key string, def time.Duration) time.Duration {
	v, ok := m[key]
	if !ok {
		return def
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		return def
	}
	return d
}

// Sub returns the nested map stored under key, or an empty Map.
func (m Map) Sub(key string) Map {
	v, ok := m[key]
	if !ok {
		return Map{}
	}
	sub, err := cast.ToStringMapE(v)
	if err != nil {
		return Map{}
	}
	return Map(sub)
}

// LogLevel returns the log_level option, or def.
func (m Map) LogLevel(def string) string {
	return m.String(KeyLogLevel, def)
}

// Clone returns a shallow copy. Cloning a nil Map yields an empty Map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of m overlaid with other.
func (m Map) Merge(other Map) Map {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}
