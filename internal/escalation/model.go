package escalation

import "time"

// Status tracks where an escalation is in its follow-up lifecycle.
type Status string

const (
	// StatusPending means created, not yet picked up by a counselor
	StatusPending Status = "pending"

	// StatusInProgress means a counselor is actively following up
	StatusInProgress Status = "in_progress"

	// StatusResolved means follow-up is complete
	StatusResolved Status = "resolved"
)

// Valid reports whether s is one of the known lifecycle statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Priority is the urgency tier derived from record age at query time.
// It is never stored; see PriorityAt.
type Priority string

const (
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Escalation is a canonical record of a request to connect a student with a
// human counselor. CreatedAt is set once at normalization and immutable
// thereafter; Status and AssignedTo change only through Store.UpdateStatus.
type Escalation struct {
	ID             string     `json:"id"`
	StudentName    string     `json:"student_name"`
	StudentEmail   string     `json:"student_email"`
	StudentPhone   *string    `json:"student_phone,omitempty"`
	InquiryTopic   string     `json:"inquiry_topic"`
	BestTimeToCall *string    `json:"best_time_to_call,omitempty"`
	ConversationID *string    `json:"conversation_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
	Status         Status     `json:"status"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	Notes          []Note     `json:"notes,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate stored records.
func (e *Escalation) Clone() *Escalation {
	cp := *e
	cp.StudentPhone = clonePtr(e.StudentPhone)
	cp.BestTimeToCall = clonePtr(e.BestTimeToCall)
	cp.ConversationID = clonePtr(e.ConversationID)
	cp.AssignedTo = clonePtr(e.AssignedTo)
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		cp.UpdatedAt = &t
	}
	if e.Notes != nil {
		cp.Notes = make([]Note, len(e.Notes))
		copy(cp.Notes, e.Notes)
	}
	return &cp
}

func clonePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Note is a free-form comment attached to an escalation by a dashboard user.
type Note struct {
	ID           string    `json:"id"`
	EscalationID string    `json:"escalation_id"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

// Summary is an escalation annotated with its priority at a given instant.
// This is the shape every read path returns.
type Summary struct {
	Escalation
	Priority Priority `json:"priority"`
}
