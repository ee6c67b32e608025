package escalation

import (
	"testing"
	"time"
)

func TestPriorityAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want Priority
	}{
		{"brand new", 0, PriorityMedium},
		{"one hour", time.Hour, PriorityMedium},
		{"just under twelve hours", 12*time.Hour - time.Second, PriorityMedium},
		{"exactly twelve hours", 12 * time.Hour, PriorityMedium},
		{"just over twelve hours", 12*time.Hour + time.Second, PriorityHigh},
		{"eighteen hours", 18 * time.Hour, PriorityHigh},
		{"just under twentyfour hours", 24*time.Hour - time.Second, PriorityHigh},
		{"exactly twentyfour hours", 24 * time.Hour, PriorityHigh},
		{"just over twentyfour hours", 24*time.Hour + time.Second, PriorityUrgent},
		{"three days", 72 * time.Hour, PriorityUrgent},
		{"clock skew puts created in the future", -time.Hour, PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := PriorityAt(now.Add(-tt.age), now)
			if got != tt.want {
				t.Errorf("PriorityAt(age=%v) = %q, want %q", tt.age, got, tt.want)
			}
		})
	}
}

func TestPriorityAt_SameInstantIsDeterministic(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 8, 14, 11, 59, 59, 0, time.UTC)
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	first := PriorityAt(created, now)
	for range 10 {
		if got := PriorityAt(created, now); got != first {
			t.Fatalf("PriorityAt varied for fixed inputs: %q then %q", first, got)
		}
	}
}
