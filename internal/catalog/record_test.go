package catalog

import (
	"testing"
	"time"
)

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		ts   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-30 * time.Hour), "yesterday"},
	}
	for _, tt := range tests {
		if got := RelativeTime(tt.ts); got != tt.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", tt.ts, got, tt.want)
		}
	}

	old := now.Add(-90 * 24 * time.Hour)
	if got := RelativeTime(old); got != old.Format("2006-01-02 15:04") {
		t.Errorf("RelativeTime(old) = %q", got)
	}
}

func TestRecordAge(t *testing.T) {
	rec := Record{Timestamp: time.Now().Add(-time.Minute)}
	if age := rec.Age(); age < 59*time.Second || age > 2*time.Minute {
		t.Errorf("Age = %v", age)
	}
}
