package escalation

import "context"

// Store is the persistence interface for escalation records. It exclusively
// owns the canonical records: all read operations return copies, and
// UpdateStatus/AddNote are the only mutation paths for existing records.
// Implementations must serialize concurrent mutations internally.
type Store interface {
	// Append adds a new record at the end. No capacity bound is enforced;
	// unbounded growth is an accepted demo-scale limitation.
	Append(ctx context.Context, e *Escalation) error

	// All returns a snapshot of every record in insertion order.
	All(ctx context.Context) ([]Escalation, error)

	// Get returns a copy of the record with the given ID.
	Get(ctx context.Context, id string) (*Escalation, bool, error)

	// UpdateStatus replaces status (and assigned_to when non-nil) in place,
	// preserving all other fields including CreatedAt. ok=false if id is unknown.
	UpdateStatus(ctx context.Context, id string, status Status, assignedTo *string) (*Escalation, bool, error)

	// AddNote attaches a note to the record. ok=false if id is unknown.
	AddNote(ctx context.Context, id string, note *Note) (bool, error)
}
