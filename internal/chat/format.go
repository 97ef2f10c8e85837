package chat

import (
	"strings"
	"time"
)

// serverTimeLayouts covers the backend's timestamp formats: RFC 3339 and the
// naive ISO form without a timezone suffix.
var serverTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ParseServerTime parses a backend timestamp. Naive timestamps are taken as
// UTC. A zero time is returned for unparseable input.
func ParseServerTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range serverTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t
		}
	}
	return time.Time{}
}

// FormatSessionTime renders a session's last-activity timestamp by age:
// time-of-day under 24 hours, weekday under 7 days, calendar date otherwise.
func FormatSessionTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := now.Sub(t)
	switch {
	case age < 24*time.Hour:
		return t.Local().Format("3:04 PM")
	case age < 7*24*time.Hour:
		return t.Local().Format("Mon")
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}

// trimMessage normalizes outgoing message text.
func trimMessage(s string) string {
	return strings.TrimSpace(s)
}

// WelcomeText is the canned greeting shown for a fresh conversation surface.
func WelcomeText() string {
	return strings.Join([]string{
		"Welcome to ShopBot!",
		"",
		"I'm your personal shopping assistant. I can help you find products,",
		"compare prices, and answer questions about our inventory.",
		"",
		"Try asking me something like:",
		`  - "Show me smartphones under $500"`,
		`  - "I need a laptop for gaming"`,
		`  - "What headphones do you recommend?"`,
	}, "\n")
}
