// Package slack announces new escalations to a Slack incoming webhook so
// counselors see handoff requests without watching the dashboard.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/linnemanlabs/handoff/internal/escalation"
)

const httpTimeout = 10 * time.Second

// Notifier sends new-escalation messages to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, Send is a no-op.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// Send posts an escalation to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Send(ctx context.Context, e *escalation.Escalation) error {
	if n.webhookURL == "" {
		return nil
	}

	msg := buildMessage(e)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(e *escalation.Escalation) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(e),
			{"type": "divider"},
			fieldsBlock(e),
			{"type": "divider"},
			contextBlock(e),
		},
	}
}

func headerBlock(e *escalation.Escalation) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": fmt.Sprintf("\U0001f4de New Escalation: %s", e.InquiryTopic),
		},
	}
}

func fieldsBlock(e *escalation.Escalation) map[string]any {
	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Student:* %s", e.StudentName),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Email:* %s", e.StudentEmail),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Phone:* %s", orDash(e.StudentPhone)),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Best time to call:* %s", orDash(e.BestTimeToCall)),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Status:* %s", e.Status),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Conversation:* %s", orDash(e.ConversationID)),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func contextBlock(e *escalation.Escalation) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("handoff • %s • %s", e.ID, e.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "n/a"
	}
	return *s
}
