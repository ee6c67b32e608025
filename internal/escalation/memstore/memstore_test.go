package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/handoff/internal/escalation"
)

func newRecord(id string) *escalation.Escalation {
	return &escalation.Escalation{
		ID:           id,
		StudentName:  "Student " + id,
		StudentEmail: id + "@example.edu",
		InquiryTopic: "General Inquiry",
		CreatedAt:    time.Now().UTC(),
		Status:       escalation.StatusPending,
	}
}

func TestStore_AppendAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Append(ctx, newRecord("ESC_1")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, ok, err := s.Get(ctx, "ESC_1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}
	if got.ID != "ESC_1" {
		t.Errorf("ID = %q, want ESC_1", got.ID)
	}
	if got.Status != escalation.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.Get(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_AllPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	ids := []string{"ESC_3", "ESC_1", "ESC_2"}
	for _, id := range ids {
		if err := s.Append(ctx, newRecord(id)); err != nil {
			t.Fatalf("Append %s: %v", id, err)
		}
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != len(ids) {
		t.Fatalf("len = %d, want %d", len(all), len(ids))
	}
	for i, id := range ids {
		if all[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, all[i].ID, id)
		}
	}
}

func TestStore_SnapshotIsolation(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Append(ctx, newRecord("ESC_1")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	all[0].Status = escalation.StatusResolved
	all[0].StudentName = "mutated"

	got, _, _ := s.Get(ctx, "ESC_1")
	if got.Status != escalation.StatusPending {
		t.Error("mutating a snapshot must not change the stored record")
	}
	if got.StudentName != "Student ESC_1" {
		t.Errorf("StudentName = %q, stored record was mutated", got.StudentName)
	}
}

func TestStore_AppendCopiesInput(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	r := newRecord("ESC_1")
	if err := s.Append(ctx, r); err != nil {
		t.Fatalf("Append: %v", err)
	}

	r.StudentName = "changed after append"

	got, _, _ := s.Get(ctx, "ESC_1")
	if got.StudentName != "Student ESC_1" {
		t.Error("mutating the input after Append must not change the stored record")
	}
}

func TestStore_UpdateStatus(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	orig := newRecord("ESC_1")
	if err := s.Append(ctx, orig); err != nil {
		t.Fatalf("Append: %v", err)
	}

	who := "counselor-1"
	got, ok, err := s.UpdateStatus(ctx, "ESC_1", escalation.StatusInProgress, &who)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}
	if got.Status != escalation.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", got.Status)
	}
	if got.AssignedTo == nil || *got.AssignedTo != "counselor-1" {
		t.Errorf("AssignedTo = %v, want counselor-1", got.AssignedTo)
	}
	if !got.CreatedAt.Equal(orig.CreatedAt) {
		t.Error("UpdateStatus must preserve CreatedAt")
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt must be set")
	}
}

func TestStore_UpdateStatusKeepsAssignee(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Append(ctx, newRecord("ESC_1")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	who := "counselor-1"
	if _, _, err := s.UpdateStatus(ctx, "ESC_1", escalation.StatusInProgress, &who); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	// nil assignedTo leaves the previous assignee in place
	got, _, err := s.UpdateStatus(ctx, "ESC_1", escalation.StatusResolved, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.AssignedTo == nil || *got.AssignedTo != "counselor-1" {
		t.Errorf("AssignedTo = %v, want counselor-1 preserved", got.AssignedTo)
	}
}

func TestStore_UpdateStatusMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.UpdateStatus(context.Background(), "nonexistent", escalation.StatusResolved, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_AddNote(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Append(ctx, newRecord("ESC_1")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	note := &escalation.Note{
		ID:           "NOTE_1",
		EscalationID: "ESC_1",
		Author:       "counselor",
		Text:         "left a voicemail",
		CreatedAt:    time.Now().UTC(),
	}
	ok, err := s.AddNote(ctx, "ESC_1", note)
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if !ok {
		t.Fatal("expected record to be found")
	}

	got, _, _ := s.Get(ctx, "ESC_1")
	if len(got.Notes) != 1 {
		t.Fatalf("notes = %d, want 1", len(got.Notes))
	}
	if got.Notes[0].Text != "left a voicemail" {
		t.Errorf("note text = %q", got.Notes[0].Text)
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt must be set after AddNote")
	}
}

func TestStore_AddNoteMissing(t *testing.T) {
	t.Parallel()

	s := New()
	ok, err := s.AddNote(context.Background(), "nonexistent", &escalation.Note{ID: "NOTE_1"})
	if err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing ID")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n * 3)

	for i := range n {
		id := fmt.Sprintf("ESC_%d", i)

		go func() {
			defer wg.Done()
			_ = s.Append(ctx, newRecord(id))
		}()

		go func() {
			defer wg.Done()
			_, _, _ = s.Get(ctx, id)
			_, _ = s.All(ctx)
		}()

		go func() {
			defer wg.Done()
			_, _, _ = s.UpdateStatus(ctx, id, escalation.StatusInProgress, nil)
		}()
	}

	wg.Wait()

	if s.Len() != n {
		t.Errorf("Len = %d, want %d", s.Len(), n)
	}
}
