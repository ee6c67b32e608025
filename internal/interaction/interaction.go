// Package interaction stores post-call conversation records received from
// the voice platform and serves the dashboard's recency and analytics views.
package interaction

import (
	"sort"
	"strings"
	"time"
)

// Interaction is one completed voice conversation, upserted by conversation
// ID so webhook redelivery stays idempotent.
type Interaction struct {
	ID              string    `json:"id"`
	AgentID         string    `json:"agent_id"`
	StartedAt       time.Time `json:"started_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Summary         string    `json:"summary,omitempty"`
	Sentiment       string    `json:"sentiment"`
	Outcome         string    `json:"outcome"`
	StudentName     *string   `json:"student_name,omitempty"`
	StudentEmail    *string   `json:"student_email,omitempty"`
	Topic           string    `json:"topic"`
	CreatedAt       time.Time `json:"created_at"`
	Source          string    `json:"source"`
}

// Outcome labels after normalization.
const (
	OutcomeResolved  = "resolved"
	OutcomeEscalated = "escalated"
	OutcomeFailed    = "failed"
)

// NormalizeOutcome folds the platform's many outcome spellings into three
// labels. Unknown outcomes default to resolved (assume success if no error).
func NormalizeOutcome(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "escalated", "handoff", "transferred":
		return OutcomeEscalated
	case "failed", "error", "abandoned":
		return OutcomeFailed
	default:
		return OutcomeResolved
	}
}

// Recent returns interactions started at or after since, newest first, with
// offset/limit pagination. Ties on StartedAt keep insertion order.
func Recent(records []Interaction, since time.Time, limit, offset int) []Interaction {
	filtered := make([]Interaction, 0, len(records))
	for _, r := range records {
		if r.StartedAt.Before(since) {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].StartedAt.After(filtered[j].StartedAt)
	})

	if offset >= len(filtered) {
		return []Interaction{}
	}
	filtered = filtered[offset:]
	if limit >= 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered
}
