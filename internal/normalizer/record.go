package normalizer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cx-tal-miterani/flight-booking-client/shared/models"
)

// Record is one decoded JSON object with its original keys
type Record map[string]any

// lookup returns the first present, non-null, non-blank value among keys.
func (r Record) lookup(keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := r[k]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// String reads the first alias present as a trimmed string.
func (r Record) String(keys ...string) string {
	v, ok := r.lookup(keys)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// Float reads a number, accepting numeric strings.
func (r Record) Float(keys ...string) (float64, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return 0, false
	}
	var f float64
	var err error
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case int:
		f = float64(t)
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Int reads an integral number. Fractional values are rejected.
func (r Record) Int(keys ...string) (int, bool) {
	f, ok := r.Float(keys...)
	if !ok || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// Bool reads a boolean; the second result reports presence.
func (r Record) Bool(keys ...string) (bool, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	default:
		return false, false
	}
}

// Object reads a nested object.
func (r Record) Object(keys ...string) (Record, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return Record(m), ok
}

// List reads a nested array.
func (r Record) List(keys ...string) ([]any, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return nil, false
	}
	l, ok := v.([]any)
	return l, ok
}

// Time reads an ISO-8601 string or a Unix timestamp in milliseconds.
func (r Record) Time(keys ...string) (time.Time, bool) {
	v, ok := r.lookup(keys)
	if !ok {
		return time.Time{}, false
	}
	if s, isString := v.(string); isString {
		t, err := models.ParseTimestamp(s)
		return t, err == nil
	}
	ms, ok := r.Float(keys...)
	if !ok || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}

// overlay returns a copy of r with the keys of other applied on top.
func (r Record) overlay(other Record) Record {
	out := make(Record, len(r)+len(other))
	for k, v := range r {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// without returns a copy of r lacking keys.
func (r Record) without(keys ...string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
