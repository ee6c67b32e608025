package escalation

import "time"

// Priority age thresholds. Strict greater-than: a record aged exactly 24h is
// high, not urgent. This boundary behavior is an observable contract.
const (
	urgentAfter = 24 * time.Hour
	highAfter   = 12 * time.Hour
)

// PriorityAt derives the urgency tier from record age at the given instant.
// Plain wall-clock subtraction; not calendar-aware. Pure function so the
// value never goes stale - it is recomputed on every read and deliberately
// never cached on the record.
func PriorityAt(createdAt, now time.Time) Priority {
	age := now.Sub(createdAt)
	switch {
	case age > urgentAfter:
		return PriorityUrgent
	case age > highAfter:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}
