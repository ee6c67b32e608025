package escalation

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultInquiryTopic is substituted when a submission omits the topic.
const DefaultInquiryTopic = "General Inquiry"

// CreateRequest is a raw inbound escalation submission, from either the
// synchronous tool-call path or an escalation tool call embedded in a
// post-call webhook. Fields arrive partially populated.
type CreateRequest struct {
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	StudentPhone   string `json:"student_phone,omitempty"`
	InquiryTopic   string `json:"inquiry_topic,omitempty"`
	BestTimeToCall string `json:"best_time_to_call,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Normalizer converts raw submissions into canonical Escalation records.
// IDs embed a UTC second-resolution timestamp plus a per-second sequence
// counter, so they stay human-sortable and collision-resistant under burst
// within one second. The counter is process-local and resets on restart;
// acceptable at demo scale, not for multi-process deployment.
type Normalizer struct {
	mu        sync.Mutex
	lastStamp string
	seq       int

	now func() time.Time
}

// NewNormalizer initializes a Normalizer using the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize validates req and constructs the canonical record. It does not
// append to any store; construction and persistence are kept separate so the
// function is testable in isolation.
func (n *Normalizer) Normalize(req *CreateRequest) (*Escalation, error) {
	name := strings.TrimSpace(req.StudentName)
	if name == "" {
		return nil, &ValidationError{Field: "student_name"}
	}
	email := strings.TrimSpace(req.StudentEmail)
	if email == "" {
		return nil, &ValidationError{Field: "student_email"}
	}

	topic := strings.TrimSpace(req.InquiryTopic)
	if topic == "" {
		topic = DefaultInquiryTopic
	}

	now := n.now().UTC()

	return &Escalation{
		ID:             n.nextID(now),
		StudentName:    name,
		StudentEmail:   email,
		StudentPhone:   optional(req.StudentPhone),
		InquiryTopic:   topic,
		BestTimeToCall: optional(req.BestTimeToCall),
		ConversationID: optional(req.ConversationID),
		CreatedAt:      now,
		Status:         StatusPending,
	}, nil
}

func (n *Normalizer) nextID(now time.Time) string {
	stamp := now.Format("20060102150405")

	n.mu.Lock()
	defer n.mu.Unlock()
	if stamp != n.lastStamp {
		n.lastStamp = stamp
		n.seq = 0
	}
	n.seq++
	return fmt.Sprintf("ESC_%s_%d", stamp, n.seq)
}

// optional maps an empty-after-trimming input to absent, never to "".
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
