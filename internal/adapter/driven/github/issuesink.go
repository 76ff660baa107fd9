// Package github implements the Notifier port by commenting on a GitHub issue.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/spexpiry/internal/adapter/driven/teams"
	"github.com/ericfisherdev/spexpiry/internal/domain/model"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Notifier = (*IssueSink)(nil)

// IssueSink posts each expiration warning as a comment on one tracking issue.
type IssueSink struct {
	gh     *gh.Client
	owner  string
	repo   string
	number int
}

// NewIssueSink creates an IssueSink for issueRef ("owner/repo#123") with the
// following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewIssueSink(token, issueRef string) (*IssueSink, error) {
	owner, repo, number, err := parseIssueRef(issueRef)
	if err != nil {
		return nil, err
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &IssueSink{gh: client, owner: owner, repo: repo, number: number}, nil
}

// NewIssueSinkWithHTTPClient creates an IssueSink with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewIssueSinkWithHTTPClient(httpClient *http.Client, baseURL, issueRef string) (*IssueSink, error) {
	owner, repo, number, err := parseIssueRef(issueRef)
	if err != nil {
		return nil, err
	}

	client := gh.NewClient(httpClient)
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &IssueSink{gh: client, owner: owner, repo: repo, number: number}, nil
}

// Name identifies this sink in logs and metrics.
func (s *IssueSink) Name() string { return "github" }

// Notify adds one comment describing exp to the tracking issue.
func (s *IssueSink) Notify(ctx context.Context, exp model.ExpiringApplication) error {
	comment := &gh.IssueComment{Body: gh.Ptr(renderComment(exp))}

	_, resp, err := s.gh.Issues.CreateComment(ctx, s.owner, s.repo, s.number, comment)
	if err != nil {
		return fmt.Errorf("creating comment on %s/%s#%d: %w", s.owner, s.repo, s.number, err)
	}

	logRateLimit(resp, s.owner+"/"+s.repo+"/create-comment")
	return nil
}

// renderComment renders the same facts as the Teams card as a markdown table.
func renderComment(exp model.ExpiringApplication) string {
	card := teams.NewExpirationCard(exp)
	section := card.Sections[0]

	var b strings.Builder
	fmt.Fprintf(&b, "### :warning: %s\n\n", section.ActivityTitle)
	b.WriteString("| | |\n|---|---|\n")
	for _, f := range section.Facts {
		fmt.Fprintf(&b, "| %s | `%s` |\n", f.Name, escapeCell(f.Value))
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "`", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
