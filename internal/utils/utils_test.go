package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"thirty seconds", now.Add(-30 * time.Second), "Just now"},
		{"five minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"three hours", now.Add(-3 * time.Hour), "3h ago"},
		{"two days", now.Add(-48 * time.Hour), "2d ago"},
		{"just under a minute", now.Add(-59 * time.Second), "Just now"},
		{"just under an hour", now.Add(-59 * time.Minute), "59m ago"},
		{"just under a day", now.Add(-23*time.Hour - 59*time.Minute), "23h ago"},
		{"truncates not rounds", now.Add(-90 * time.Minute), "1h ago"},
		{"long ago stays in days", now.Add(-400 * 24 * time.Hour), "400d ago"},
		{"future clamps to now", now.Add(time.Minute), "Just now"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeAgoAt(tt.t, now))
		})
	}
}

func TestTimeAgoShort(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"seconds", now.Add(-10 * time.Second), "now"},
		{"minutes", now.Add(-5 * time.Minute), "5m"},
		{"hours", now.Add(-3 * time.Hour), "3h"},
		{"days", now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timeAgoShortAt(tt.t, now))
		})
	}
}

func TestTruncateContent(t *testing.T) {
	assert.Equal(t, "short", TruncateContent("short", 10))
	assert.Equal(t, "hello...", TruncateContent("hello world", 5))
	assert.Equal(t, "héllo...", TruncateContent("héllo wörld", 5))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", SanitizeString("<b>bold</b>"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", FirstNonEmpty("", "b", "c"))
	assert.Equal(t, "", FirstNonEmpty("", ""))
}
