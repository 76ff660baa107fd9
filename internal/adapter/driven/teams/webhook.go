// Package teams implements the Notifier port for Microsoft Teams incoming
// webhooks.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// ErrUnexpectedStatus is wrapped by errors for non-2xx webhook responses.
var ErrUnexpectedStatus = errors.New("unexpected status from webhook")

// maxErrorBody caps how much of a failed response body ends up in the error.
const maxErrorBody = 512

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*Webhook)(nil)

// Webhook posts one MessageCard per expiring credential to a fixed URL.
type Webhook struct {
	url  string
	http *http.Client
}

// NewWebhook creates a Webhook notifier with its own HTTP client.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	return NewWebhookWithHTTPClient(url, &http.Client{Timeout: timeout})
}

// NewWebhookWithHTTPClient creates a Webhook notifier using httpClient.
func NewWebhookWithHTTPClient(url string, httpClient *http.Client) *Webhook {
	return &Webhook{url: url, http: httpClient}
}

// Name identifies this sink in logs and metrics.
func (w *Webhook) Name() string { return "teams" }

// Notify renders exp as a MessageCard and POSTs it once.
func (w *Webhook) Notify(ctx context.Context, exp model.ExpiringApplication) error {
	body, err := json.Marshal(NewExpirationCard(exp))
	if err != nil {
		return fmt.Errorf("encoding card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(msg))
	}

	slog.Debug("webhook accepted card", "status", resp.StatusCode, "key_id", exp.KeyID)
	return nil
}
