package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeTimeRe captures "N [units] ago" and "in N [units]".
// e.g., "3 days ago", "in 2 weeks".
var relativeTimeRe = regexp.MustCompile(`^(?:(in)\s+)?(\d+)\s+(year|month|week|day|hour)s?(?:\s+(ago))?$`)

// absoluteLayouts are tried in order before relative parsing.
var absoluteLayouts = []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly}

// ParseDate parses an absolute date (RFC3339, "2006-01-02 15:04:05" or "2006-01-02", all
// in UTC unless an offset is given), the keywords "now", "today", "tomorrow", or a
// relative expression like "3 days ago" or "in 2 weeks".
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	switch strings.ToLower(s) {
	case "now":
		return now, nil
	case "today":
		return truncateDay(now), nil
	case "tomorrow":
		return truncateDay(now).AddDate(0, 0, 1), nil
	}

	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, RFC3339 or 'N [units] ago' / 'in N [units]', got %q", s)
	}
	return t, nil
}

// ParseRelativeTime converts strings like "2 weeks ago" or "in 10 days" into a time.Time
// relative to now. Exactly one of the "in" prefix or "ago" suffix must be present.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	// 1: "in" prefix, 2: value, 3: unit, 4: "ago" suffix
	future, past := matches[1] != "", matches[4] != ""
	if future == past {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}
	value, err := strconv.Atoi(matches[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid relative time value: %s", matches[2])
	}
	if past {
		value = -value
	}

	switch matches[3] {
	case "year":
		return now.AddDate(value, 0, 0), nil
	case "month":
		return now.AddDate(0, value, 0), nil
	case "week":
		return now.AddDate(0, 0, 7*value), nil
	case "day":
		return now.AddDate(0, 0, value), nil
	case "hour":
		return now.Add(time.Duration(value) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit: %s", matches[3])
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
