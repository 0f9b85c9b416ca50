// Package wire holds the DTOs exchanged with the LEARN backend together with
// the tolerant scalar decoders that absorb its unstable field typing.
package wire

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// The backend is not contractually stable about scalar types: the same logical
// field has been observed as a number, a numeric string, or null across
// endpoints. The Lossy types decode all of those into an optional value and
// degrade anything unparseable to "absent" instead of failing the record.

// LossyInt decodes an int from a native integer, a numeric string, or null.
type LossyInt struct {
	value   int
	present bool
}

// Get returns the decoded value and whether one was present
func (l LossyInt) Get() (int, bool) {
	return l.value, l.present
}

// Or returns the decoded value, or def when absent
func (l LossyInt) Or(def int) int {
	if l.present {
		return l.value
	}
	return def
}

// Ptr returns the decoded value as a pointer, nil when absent
func (l LossyInt) Ptr() *int {
	if !l.present {
		return nil
	}
	v := l.value
	return &v
}

// UnmarshalJSON never returns an error: unknown shapes decode as absent
func (l *LossyInt) UnmarshalJSON(data []byte) error {
	*l = LossyInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		s, ok := unquote(data)
		if !ok {
			return nil
		}
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*l = LossyInt{value: v, present: true}
		}
		return nil
	}
	if v, err := strconv.Atoi(string(data)); err == nil {
		*l = LossyInt{value: v, present: true}
	}
	return nil
}

// LossyFloat decodes a float from a native number (integers widened), a
// numeric string, or null.
type LossyFloat struct {
	value   float64
	present bool
}

// Get returns the decoded value and whether one was present
func (l LossyFloat) Get() (float64, bool) {
	return l.value, l.present
}

// Or returns the decoded value, or def when absent
func (l LossyFloat) Or(def float64) float64 {
	if l.present {
		return l.value
	}
	return def
}

// Ptr returns the decoded value as a pointer, nil when absent
func (l LossyFloat) Ptr() *float64 {
	if !l.present {
		return nil
	}
	v := l.value
	return &v
}

// UnmarshalJSON never returns an error: unknown shapes decode as absent
func (l *LossyFloat) UnmarshalJSON(data []byte) error {
	*l = LossyFloat{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		s, ok := unquote(data)
		if !ok {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*l = LossyFloat{value: v, present: true}
		}
		return nil
	}
	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*l = LossyFloat{value: v, present: true}
	}
	return nil
}

// LossyString decodes a string from a native string, a number (stringified),
// a boolean ("true"/"false"), or null.
type LossyString struct {
	value   string
	present bool
}

// Get returns the decoded value and whether one was present
func (l LossyString) Get() (string, bool) {
	return l.value, l.present
}

// Or returns the decoded value, or def when absent
func (l LossyString) Or(def string) string {
	if l.present {
		return l.value
	}
	return def
}

// Ptr returns the decoded value as a pointer, nil when absent
func (l LossyString) Ptr() *string {
	if !l.present {
		return nil
	}
	v := l.value
	return &v
}

// UnmarshalJSON never returns an error: unknown shapes decode as absent
func (l *LossyString) UnmarshalJSON(data []byte) error {
	*l = LossyString{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		if s, ok := unquote(data); ok {
			*l = LossyString{value: s, present: true}
		}
	case 't', 'f':
		if v, err := strconv.ParseBool(string(data)); err == nil {
			*l = LossyString{value: strconv.FormatBool(v), present: true}
		}
	case '{', '[':
		// objects and arrays are treated as missing
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err == nil {
			*l = LossyString{value: string(data), present: true}
		}
	}
	return nil
}

// unquote decodes a JSON string literal
func unquote(data []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}
