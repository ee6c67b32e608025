package escalapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/handoff/internal/escalation"
	"github.com/linnemanlabs/handoff/internal/interaction"
)

// escalationToolName identifies the agent tool call embedded in a transcript
// that requests a human handoff.
const escalationToolName = "create_escalation"

// webhookEvent is the post-call payload from the voice platform. Fields vary
// by payload version; everything beyond conversation metadata is optional.
type webhookEvent struct {
	ConversationID  string            `json:"conversation_id"`
	AgentID         string            `json:"agent_id"`
	Timestamp       string            `json:"timestamp"`
	DurationSeconds int               `json:"duration_seconds"`
	Summary         string            `json:"summary"`
	Sentiment       string            `json:"sentiment"`
	CallOutcome     string            `json:"call_outcome"`
	ExtractedData   map[string]string `json:"extracted_data"`
	Transcript      []transcriptEntry `json:"transcript"`
}

type transcriptEntry struct {
	Speaker   string     `json:"speaker"`
	Text      string     `json:"text"`
	ToolCalls []toolCall `json:"tool_calls,omitempty"`
}

type toolCall struct {
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params"`
}

// handleWebhookProbe answers the platform's endpoint validation check.
func (a *API) handleWebhookProbe(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"message":  "interaction webhook endpoint is active",
		"endpoint": "/api/v1/webhooks/interaction",
		"method":   http.MethodPost,
	})
}

// handleInteractionWebhook receives the asynchronous post-call event. The
// signature middleware has already verified the body. The conversation is
// upserted by ID (redelivery is idempotent), and any embedded escalation tool
// call is handed to the normalizer.
func (a *API) handleInteractionWebhook(w http.ResponseWriter, r *http.Request) {
	var ev webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	rec := a.interactionFromEvent(&ev)
	updated := a.interactions.Upsert(rec)

	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(attribute.String("handoff.conversation.id", rec.ID))

	a.logger.Info(r.Context(), "interaction logged",
		"conversation_id", rec.ID,
		"agent_id", rec.AgentID,
		"updated", updated,
	)

	var escalated []string
	for _, entry := range ev.Transcript {
		for _, tc := range entry.ToolCalls {
			if tc.Name != escalationToolName {
				continue
			}
			var req escalation.CreateRequest
			if err := json.Unmarshal(tc.Params, &req); err != nil {
				a.logger.Warn(r.Context(), "malformed escalation tool call in transcript",
					"conversation_id", rec.ID, "error", err)
				continue
			}
			if req.ConversationID == "" {
				req.ConversationID = rec.ID
			}
			e, err := a.svc.Create(r.Context(), &req, "webhook")
			if err != nil {
				// a bad tool call must not fail the whole webhook delivery
				a.logger.Warn(r.Context(), "skipping invalid embedded escalation",
					"conversation_id", rec.ID, "error", err)
				continue
			}
			escalated = append(escalated, e.ID)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"conversation_id": rec.ID,
		"escalations":     escalated,
	})
}

func (a *API) interactionFromEvent(ev *webhookEvent) *interaction.Interaction {
	now := time.Now().UTC()

	id := ev.ConversationID
	if id == "" {
		id = "conv_" + ulid.Make().String()
	}

	startedAt := now
	if ev.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, ev.Timestamp); err == nil {
			startedAt = ts.UTC()
		}
	}

	sentiment := ev.Sentiment
	if sentiment == "" {
		sentiment = "neutral"
	}

	topic := ev.ExtractedData["call_topic"]
	if topic == "" {
		topic = escalation.DefaultInquiryTopic
	}

	rec := &interaction.Interaction{
		ID:              id,
		AgentID:         ev.AgentID,
		StartedAt:       startedAt,
		DurationSeconds: ev.DurationSeconds,
		Summary:         ev.Summary,
		Sentiment:       sentiment,
		Outcome:         interaction.NormalizeOutcome(ev.CallOutcome),
		Topic:           topic,
		CreatedAt:       now,
		Source:          "webhook",
	}
	if name := ev.ExtractedData["user_name"]; name != "" {
		rec.StudentName = &name
	}
	if email := ev.ExtractedData["user_email"]; email != "" {
		rec.StudentEmail = &email
	}
	return rec
}

func (a *API) handleListInteractions(w http.ResponseWriter, r *http.Request) {
	limit, err := intQueryParam(r, "limit", 50)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	offset, err := intQueryParam(r, "offset", 0)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	days, err := intQueryParam(r, "days", 7)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if limit < 0 || offset < 0 || days < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "limit, offset and days must not be negative"})
		return
	}

	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	writeJSON(w, http.StatusOK, interaction.Recent(a.interactions.All(), since, limit, offset))
}

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	days, err := intQueryParam(r, "days", 30)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if days < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "days must not be negative"})
		return
	}

	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	writeJSON(w, http.StatusOK, interaction.Analyze(a.interactions.All(), since))
}
