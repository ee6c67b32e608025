package escalation

import (
	"sort"
	"time"
)

// DefaultLimit is the page size when the caller does not specify one.
const DefaultLimit = 50

// Query selects a page of escalations for the dashboard. Status empty means
// no filter. No upper bound on Limit is enforced; this matches the reference
// behavior and is a known hardening gap.
type Query struct {
	Status Status
	Limit  int
	Offset int
}

// Validate rejects negative pagination arguments.
func (q Query) Validate() error {
	if q.Limit < 0 {
		return &InvalidArgumentError{Name: "limit", Reason: "must not be negative"}
	}
	if q.Offset < 0 {
		return &InvalidArgumentError{Name: "offset", Reason: "must not be negative"}
	}
	return nil
}

// Apply runs the query pipeline over a snapshot: filter by status, sort
// newest-first, paginate, then annotate priority. The sort is stable so
// records sharing a created_at keep their insertion order. now is captured
// once by the caller, so every record in one response shares the same
// reference instant; two calls seconds apart may disagree on a borderline
// record, which is accepted.
func Apply(records []Escalation, q Query, now time.Time) []Summary {
	filtered := make([]Escalation, 0, len(records))
	for _, r := range records {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		filtered = append(filtered, r)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	if q.Offset >= len(filtered) {
		return []Summary{}
	}
	filtered = filtered[q.Offset:]
	if q.Limit < len(filtered) {
		filtered = filtered[:q.Limit]
	}

	out := make([]Summary, 0, len(filtered))
	for _, r := range filtered {
		out = append(out, Summary{Escalation: r, Priority: PriorityAt(r.CreatedAt, now)})
	}
	return out
}
