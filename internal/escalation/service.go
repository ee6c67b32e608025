package escalation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
)

// Notifier is notified of newly created escalations (e.g. a Slack webhook).
type Notifier interface {
	Send(ctx context.Context, e *Escalation) error
}

// Service is the business boundary for escalation operations. It owns
// normalization, the store, and read-time priority annotation.
type Service struct {
	store    Store
	norm     *Normalizer
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier

	now func() time.Time
}

// NewService creates a new escalation service. metrics and notifier may be nil.
func NewService(store Store, logger log.Logger, metrics *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		norm:     NewNormalizer(),
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create normalizes and appends a new escalation. source labels the intake
// path ("tool_call" or "webhook") for logs and metrics.
func (s *Service) Create(ctx context.Context, req *CreateRequest, source string) (*Escalation, error) {
	e, err := s.norm.Normalize(req)
	if err != nil {
		s.metrics.incCreate(source, "invalid")
		return nil, err
	}

	if err := s.store.Append(ctx, e); err != nil {
		s.metrics.incCreate(source, "error")
		return nil, fmt.Errorf("append escalation: %w", err)
	}
	s.metrics.incCreate(source, "created")
	s.metrics.incStoreSize()

	s.logger.Info(ctx, "escalation created",
		"id", e.ID,
		"topic", e.InquiryTopic,
		"source", source,
	)

	if s.notifier != nil {
		// notification is best-effort and must not block or cancel with the request
		go func(e *Escalation) {
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
			defer cancel()
			if err := s.notifier.Send(nctx, e); err != nil {
				s.logger.Error(nctx, err, "escalation notification failed", "id", e.ID)
			}
		}(e.Clone())
	}

	return e, nil
}

// List returns a filtered, sorted, paginated page of escalations annotated
// with priority as of a single instant captured at call time.
func (s *Service) List(ctx context.Context, q Query) ([]Summary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	records, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load escalations: %w", err)
	}
	s.metrics.incList(string(q.Status))
	return Apply(records, q, s.now().UTC()), nil
}

// Get returns a single escalation annotated with its current priority.
func (s *Service) Get(ctx context.Context, id string) (*Summary, bool, error) {
	e, ok, err := s.store.Get(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	return &Summary{Escalation: *e, Priority: PriorityAt(e.CreatedAt, s.now().UTC())}, true, nil
}

// UpdateStatus is the sole mutation path for existing records. A non-empty
// note is recorded alongside the transition, prefixed with the old and new
// status for the audit trail.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status, assignedTo *string, note string) (*Summary, bool, error) {
	if !status.Valid() {
		s.metrics.incStatusUpdate("invalid")
		return nil, false, &InvalidArgumentError{
			Name:   "status",
			Reason: fmt.Sprintf("must be one of %q, %q, %q", StatusPending, StatusInProgress, StatusResolved),
		}
	}

	old, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		s.metrics.incStatusUpdate("not_found")
		return nil, false, nil
	}

	updated, ok, err := s.store.UpdateStatus(ctx, id, status, assignedTo)
	if err != nil || !ok {
		return nil, ok, err
	}

	if note = strings.TrimSpace(note); note != "" {
		n := s.newNote(id, "Dashboard User",
			fmt.Sprintf("Status changed from %s to %s. %s", old.Status, status, note))
		if _, err := s.store.AddNote(ctx, id, n); err != nil {
			s.logger.Error(ctx, err, "failed to record status-change note", "id", id)
		}
	}
	s.metrics.incStatusUpdate("updated")

	s.logger.Info(ctx, "escalation status updated",
		"id", id,
		"old_status", old.Status,
		"new_status", status,
	)

	return &Summary{Escalation: *updated, Priority: PriorityAt(updated.CreatedAt, s.now().UTC())}, true, nil
}

// AddNote attaches a dashboard comment to an escalation.
func (s *Service) AddNote(ctx context.Context, id, author, text string) (*Note, bool, error) {
	if strings.TrimSpace(author) == "" {
		return nil, false, &ValidationError{Field: "author"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, false, &ValidationError{Field: "text"}
	}

	n := s.newNote(id, author, text)
	ok, err := s.store.AddNote(ctx, id, n)
	if err != nil || !ok {
		return nil, ok, err
	}
	s.metrics.incNote()
	return n, true, nil
}

// Notes returns all notes for an escalation in creation order.
func (s *Service) Notes(ctx context.Context, id string) ([]Note, bool, error) {
	e, ok, err := s.store.Get(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if e.Notes == nil {
		return []Note{}, true, nil
	}
	return e.Notes, true, nil
}

func (s *Service) newNote(escalationID, author, text string) *Note {
	return &Note{
		ID:           "NOTE_" + ulid.Make().String(),
		EscalationID: escalationID,
		Author:       author,
		Text:         text,
		CreatedAt:    s.now().UTC(),
	}
}
