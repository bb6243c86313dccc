package scorer

import (
	"strings"
	"time"
)

// UnknownRecency is used when an item has no parseable timestamp.
const UnknownRecency = 0.4

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339 and a few common date layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Recency is a step function of the item's age relative to now.
func Recency(createdAt string, now time.Time) float64 {
	t, ok := ParseTimestamp(createdAt)
	if !ok {
		return UnknownRecency
	}
	age := now.Sub(t)
	const day = 24 * time.Hour
	switch {
	case age <= day:
		return 1.0
	case age <= 7*day:
		return 0.85
	case age <= 30*day:
		return 0.65
	case age <= 90*day:
		return 0.45
	default:
		return 0.28
	}
}
