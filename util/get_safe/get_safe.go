package getsafe

import (
	"strconv"
	"time"
)

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		switch s := v.(type) {
		case string:
			return s
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

// StringPtr returns nil when key is absent or null.
func StringPtr(payload map[string]any, key string) *string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

func Strings(payload map[string]any, key string) []string {
	v, ok := payload[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func Bool(payload map[string]any, key string) bool {
	if v, ok := payload[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Float returns nil when key is absent or not a number.
func Float(payload map[string]any, key string) *float64 {
	if v, ok := payload[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05.999999",
}

// Time parses ISO-8601 timestamps with or without a zone. Zoneless values are
// read as UTC. The zero time is returned when nothing parses.
func Time(payload map[string]any, key string) time.Time {
	s := String(payload, key)
	if len(s) == 0 {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
