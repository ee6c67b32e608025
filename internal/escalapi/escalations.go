package escalapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/handoff/internal/escalation"
)

// handleCreateEscalation is the synchronous tool-call creation path: the
// voice agent calls this mid-conversation to hand a student off to a human.
func (a *API) handleCreateEscalation(w http.ResponseWriter, r *http.Request) {
	var req escalation.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	e, err := a.svc.Create(r.Context(), &req, "tool_call")
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("handoff.escalation.id", e.ID))

	writeJSON(w, http.StatusCreated, map[string]any{
		"escalation_id":           e.ID,
		"status":                  "created",
		"message":                 "Thank you! An admissions counselor will reach out to " + e.StudentName + " within 24 hours.",
		"estimated_response_time": "within 24 hours",
	})
}

func (a *API) handleListEscalations(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit", escalation.DefaultLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	offset, err := intQueryParam(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}

	q := escalation.Query{
		Status: escalation.Status(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}

	summaries, err := a.svc.List(r.Context(), q)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.Int("handoff.escalations.count", len(summaries)))

	writeJSON(w, http.StatusOK, summaries)
}

func (a *API) handleGetEscalation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("handoff.escalation.id", id))

	s, ok, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "escalation not found"})
		return
	}

	writeJSON(w, http.StatusOK, s)
}

type statusUpdateRequest struct {
	Status     string  `json:"status"`
	AssignedTo *string `json:"assigned_to,omitempty"`
	Note       string  `json:"note,omitempty"`
}

func (a *API) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	s, ok, err := a.svc.UpdateStatus(r.Context(), id, escalation.Status(req.Status), req.AssignedTo, req.Note)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "escalation not found"})
		return
	}

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(
		attribute.String("handoff.escalation.id", id),
		attribute.String("handoff.escalation.status", string(s.Status)),
	)

	writeJSON(w, http.StatusOK, s)
}

type noteCreateRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

func (a *API) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req noteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	n, ok, err := a.svc.AddNote(r.Context(), id, req.Author, req.Text)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "escalation not found"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"escalation_id": id,
		"note":          n,
	})
}

func (a *API) handleGetNotes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	notes, ok, err := a.svc.Notes(r.Context(), id)
	if err != nil {
		a.writeDomainError(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "escalation not found"})
		return
	}

	writeJSON(w, http.StatusOK, notes)
}
