// Package escalapi exposes the HTTP surface of the escalation intake and
// triage core: webhook intake, tool-call creation, and the dashboard's
// list/detail/status-update/notes endpoints.
package escalapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/linnemanlabs/handoff/internal/authmw"
	"github.com/linnemanlabs/handoff/internal/escalation"
	"github.com/linnemanlabs/handoff/internal/interaction"
)

// EscalationService defines the business operations escalapi needs.
type EscalationService interface {
	Create(ctx context.Context, req *escalation.CreateRequest, source string) (*escalation.Escalation, error)
	List(ctx context.Context, q escalation.Query) ([]escalation.Summary, error)
	Get(ctx context.Context, id string) (*escalation.Summary, bool, error)
	UpdateStatus(ctx context.Context, id string, status escalation.Status, assignedTo *string, note string) (*escalation.Summary, bool, error)
	AddNote(ctx context.Context, id, author, text string) (*escalation.Note, bool, error)
	Notes(ctx context.Context, id string) ([]escalation.Note, bool, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger       log.Logger
	svc          EscalationService
	interactions *interaction.Store

	toolAPIKey    string
	webhookSecret string
}

// New creates a new API handler. Empty toolAPIKey or webhookSecret leaves the
// corresponding gate open (permissive local mode); main logs the degraded
// state at startup.
func New(logger log.Logger, svc EscalationService, interactions *interaction.Store, toolAPIKey, webhookSecret string) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("escalation service is required"))
	}
	if interactions == nil {
		interactions = interaction.NewStore()
	}
	return &API{
		logger:        logger,
		svc:           svc,
		interactions:  interactions,
		toolAPIKey:    toolAPIKey,
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/webhooks", func(r chi.Router) {
			// GET probe lets the platform validate the endpoint is reachable
			r.Get("/interaction", a.handleWebhookProbe)
			r.With(authmw.Signature(a.webhookSecret)).Post("/interaction", a.handleInteractionWebhook)
		})

		r.Route("/escalations", func(r chi.Router) {
			if a.toolAPIKey != "" {
				r.With(authmw.BearerToken(a.toolAPIKey)).Post("/", a.handleCreateEscalation)
			} else {
				r.Post("/", a.handleCreateEscalation)
			}
			r.Get("/{id}", a.handleGetEscalation)
			r.Patch("/{id}/status", a.handleUpdateStatus)
			r.Post("/{id}/notes", a.handleAddNote)
			r.Get("/{id}/notes", a.handleGetNotes)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/escalations", a.handleListEscalations)
			r.Get("/interactions", a.handleListInteractions)
			r.Get("/analytics", a.handleAnalytics)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
func (a *API) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *escalation.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": ve.Error(),
			"field": ve.Field,
		})
		return
	}
	var ia *escalation.InvalidArgumentError
	if errors.As(err, &ia) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": ia.Error()})
		return
	}
	a.logger.Error(r.Context(), err, "request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
}

// intQueryParam parses an optional non-negative-ish integer query parameter.
// Absent returns def; malformed returns an error. Range validation is the
// domain layer's job, so negatives pass through here.
func intQueryParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}
