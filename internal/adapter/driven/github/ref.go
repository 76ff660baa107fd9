package github

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
)

// parseIssueRef splits "owner/repo#123".
func parseIssueRef(ref string) (string, string, int, error) {
	repoPart, numPart, ok := strings.Cut(ref, "#")
	if !ok {
		return "", "", 0, fmt.Errorf("invalid issue reference %q: expected owner/repo#number", ref)
	}

	owner, repo, err := splitRepo(repoPart)
	if err != nil {
		return "", "", 0, err
	}

	number, err := strconv.Atoi(numPart)
	if err != nil || number <= 0 {
		return "", "", 0, fmt.Errorf("invalid issue number in %q", ref)
	}

	return owner, repo, number, nil
}

func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}

func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
