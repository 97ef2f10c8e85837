package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseServerTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "naive iso with microseconds",
			input: "2026-08-30T14:05:09.123456",
			want:  time.Date(2026, 8, 30, 14, 5, 9, 123456000, time.UTC),
		},
		{
			name:  "naive iso without fraction",
			input: "2026-08-30T14:05:09",
			want:  time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC),
		},
		{
			name:  "rfc3339",
			input: "2026-08-30T14:05:09Z",
			want:  time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC),
		},
		{
			name:  "rfc3339 with offset",
			input: "2026-08-30T14:05:09+02:00",
			want:  time.Date(2026, 8, 30, 12, 5, 9, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2026-08-30T14:05:09  ",
			want:  time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC),
		},
		{
			name:  "garbage",
			input: "yesterday-ish",
			want:  time.Time{},
		},
		{
			name:  "empty",
			input: "",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseServerTime(tt.input)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestFormatSessionTime(t *testing.T) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{
			name: "zero time",
			t:    time.Time{},
			want: "",
		},
		{
			name: "two hours ago shows time of day",
			t:    now.Add(-2 * time.Hour),
			want: now.Add(-2 * time.Hour).Local().Format("3:04 PM"),
		},
		{
			name: "three days ago shows weekday",
			t:    now.Add(-3 * 24 * time.Hour),
			want: now.Add(-3 * 24 * time.Hour).Local().Format("Mon"),
		},
		{
			name: "two weeks ago shows full date",
			t:    now.Add(-14 * 24 * time.Hour),
			want: now.Add(-14 * 24 * time.Hour).Local().Format("Jan 2, 2006"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSessionTime(tt.t, now))
		})
	}
}

func TestTrimMessage(t *testing.T) {
	assert.Equal(t, "hello", trimMessage("  hello \n"))
	assert.Equal(t, "", trimMessage(" \t\n "))
}
