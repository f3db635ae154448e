package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Payload carries the caller-supplied field values for a transition.
// Values arrive JSON-shaped, so numbers may be float64 and everything
// else a string; the accessors normalize.
type Payload map[string]any

// Has reports whether the key is present with a non-empty value.
// Whitespace-only strings count as absent.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// String returns the value under key as a trimmed string, or "" when absent.
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// Int64 returns the value under key as an int64, or 0 when absent or
// unparseable.
func (p Payload) Int64(key string) int64 {
	switch t := p[key].(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Float64 returns the value under key as a float64, or 0 when absent.
func (p Payload) Float64(key string) float64 {
	switch t := p[key].(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool returns the value under key as a bool. Accepts JSON booleans,
// numeric 0/1 and the usual string spellings.
func (p Payload) Bool(key string) bool {
	switch t := p[key].(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	default:
		return false
	}
}

// timeLayouts are the accepted payload timestamp formats, most specific
// first.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the value under key parsed as a timestamp. The zero time
// is returned when the key is absent or unparseable.
func (p Payload) Time(key string) time.Time {
	s := p.String(key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// TimeOr returns the parsed timestamp under key, or fallback when the
// key is absent or unparseable.
func (p Payload) TimeOr(key string, fallback time.Time) time.Time {
	if t := p.Time(key); !t.IsZero() {
		return t
	}
	return fallback
}
