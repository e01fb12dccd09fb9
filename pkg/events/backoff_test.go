package events

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	base := 500 * time.Millisecond
	limit := 30 * time.Second

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 500 * time.Millisecond},
		{2, time.Second},
		{3, 2 * time.Second},
		{7, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		if got := backoff(tt.attempt, base, limit); got != tt.want {
			t.Errorf("attempt %d: got %s, want %s", tt.attempt, got, tt.want)
		}
	}
}
