// Package graph implements the DirectoryClient port against Microsoft Graph.
package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// DefaultBaseURL is the public-cloud Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// applicationsSelect is the field projection requested from the directory.
// Nothing outside these fields is relied upon.
const applicationsSelect = "id,displayName,keyCredentials,passwordCredentials"

// ErrUnexpectedStatus is wrapped by errors for non-2xx Graph responses.
var ErrUnexpectedStatus = errors.New("unexpected status from graph")

// Compile-time interface satisfaction check.
var _ driven.DirectoryClient = (*Client)(nil)

// Client implements driven.DirectoryClient using the Graph REST API.
type Client struct {
	http    *http.Client
	baseURL string
	tokens  driven.TokenProvider
}

// NewClient creates a Graph client on a plain http.Client bounded by timeout.
// Responses are never cached, so every run reads the directory afresh.
func NewClient(tokens driven.TokenProvider, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, tokens driven.TokenProvider) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
	}, nil
}

// FetchApplications lists all applications with their key and password
// credentials, following @odata.nextLink until the last page. A token is
// acquired once and attached to every page request.
func (c *Client) FetchApplications(ctx context.Context) ([]model.Application, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching applications: %w", err)
	}

	q := url.Values{}
	q.Set("$select", applicationsSelect)
	next := c.baseURL + "/applications?" + q.Encode()

	allApps := []model.Application{}

	for page := 1; next != ""; page++ {
		var resp applicationsPage
		if err := c.getJSON(ctx, next, token, &resp); err != nil {
			return nil, fmt.Errorf("fetching applications (page %d): %w", page, err)
		}

		for _, app := range resp.Value {
			allApps = append(allApps, mapApplication(app))
		}

		slog.Debug("graph applications page fetched", "page", page, "count", len(resp.Value))
		next = resp.NextLink
	}

	return allApps, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL, token string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, graphErrorMessage(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// graphErrorMessage extracts error.code and error.message from a Graph error
// body, falling back to the raw body.
func graphErrorMessage(body []byte) string {
	var e graphError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Code != "" {
		return e.Error.Code + ": " + e.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// mapApplication converts a Graph application resource to a domain Application.
func mapApplication(a applicationJSON) model.Application {
	return model.Application{
		ID:                  a.ID,
		DisplayName:         a.DisplayName,
		KeyCredentials:      mapCredentials(a.ID, a.KeyCredentials),
		PasswordCredentials: mapCredentials(a.ID, a.PasswordCredentials),
	}
}

func mapCredentials(appID string, creds []credentialJSON) []model.Credential {
	out := make([]model.Credential, 0, len(creds))
	for _, cred := range creds {
		out = append(out, model.Credential{
			KeyID:         cred.KeyID,
			DisplayName:   cred.DisplayName,
			Type:          cred.Type,
			Usage:         cred.Usage,
			Hint:          cred.Hint,
			StartDateTime: cred.StartDateTime,
			EndDateTime:   cred.EndDateTime,
			ExpiresAt:     parseDateTime(appID, cred.KeyID, cred.EndDateTime),
		})
	}
	return out
}

// parseDateTime parses a Graph DateTimeOffset. Empty or malformed values
// yield nil, which the classifier treats as "no expiry".
func parseDateTime(appID, keyID, s string) *time.Time {
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		slog.Warn("unparseable credential end date", "app_id", appID, "key_id", keyID, "value", s, "error", err)
		return nil
	}
	return &t
}
