package outbox

import (
	"testing"
	"time"
)

func TestNextAttemptDelay(t *testing.T) {
	cases := []struct {
		attempts int
		want     time.Duration
	}{
		{1, 2 * time.Minute},
		{2, 4 * time.Minute},
		{3, 8 * time.Minute},
		{4, 16 * time.Minute},
		{10, time.Hour},
	}

	for _, tc := range cases {
		if got := NextAttemptDelay(tc.attempts); got != tc.want {
			t.Errorf("NextAttemptDelay(%d) = %v, want %v", tc.attempts, got, tc.want)
		}
	}
}
