package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// DefaultAuthorityHost is the public-cloud Entra ID token authority.
const DefaultAuthorityHost = "https://login.microsoftonline.com"

var _ driven.TokenProvider = (*ClientCredentials)(nil)

// ClientCredentials acquires app-only tokens with the OAuth2 client credential
// grant. No user interaction is involved.
type ClientCredentials struct {
	cfg        *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentials configures a token provider for the given tenant. The
// requested scope is the ".default" scope of the Graph endpoint at graphBaseURL,
// i.e. every application permission granted to the service identity.
// httpClient may be nil to use http.DefaultClient.
func NewClientCredentials(
	authorityHost, tenantID, clientID, clientSecret, graphBaseURL string,
	httpClient *http.Client,
) *ClientCredentials {
	if authorityHost == "" {
		authorityHost = DefaultAuthorityHost
	}

	return &ClientCredentials{
		cfg: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     strings.TrimRight(authorityHost, "/") + "/" + url.PathEscape(tenantID) + "/oauth2/v2.0/token",
			Scopes:       []string{DefaultScope(graphBaseURL)},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
	}
}

// Token requests a fresh access token from the authority.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	if c.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	}

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("acquiring token from %s: %w", c.cfg.TokenURL, err)
	}

	return tok.AccessToken, nil
}

// DefaultScope returns "<scheme>://<host>/.default" for a Graph base URL such
// as "https://graph.microsoft.com/v1.0". Unparseable input falls back to the
// public-cloud scope.
func DefaultScope(graphBaseURL string) string {
	u, err := url.Parse(graphBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https://graph.microsoft.com/.default"
	}
	return u.Scheme + "://" + u.Host + "/.default"
}
