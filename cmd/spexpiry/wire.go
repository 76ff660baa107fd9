package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	githubadapter "github.com/ericfisherdev/spexpiry/internal/adapter/driven/github"
	"github.com/ericfisherdev/spexpiry/internal/adapter/driven/graph"
	"github.com/ericfisherdev/spexpiry/internal/adapter/driven/metrics"
	"github.com/ericfisherdev/spexpiry/internal/adapter/driven/teams"
	"github.com/ericfisherdev/spexpiry/internal/application"
	"github.com/ericfisherdev/spexpiry/internal/config"
	"github.com/ericfisherdev/spexpiry/internal/domain/port/driven"
)

// buildDirectory creates the Graph client with its client-credentials token
// provider.
func buildDirectory(cfg *config.Config) *graph.Client {
	tokens := graph.NewClientCredentials(
		cfg.AuthorityHost,
		cfg.TenantID,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.GraphBaseURL,
		&http.Client{Timeout: cfg.HTTPTimeout},
	)
	return graph.NewClient(tokens, cfg.GraphBaseURL, cfg.HTTPTimeout)
}

// buildNotifiers creates the Teams webhook sink and, when configured, the
// GitHub issue sink.
func buildNotifiers(cfg *config.Config) ([]driven.Notifier, error) {
	notifiers := []driven.Notifier{teams.NewWebhook(cfg.TeamsWebhook, cfg.HTTPTimeout)}

	if cfg.HasGitHubSink() {
		sink, err := githubadapter.NewIssueSink(cfg.GitHubToken, cfg.GitHubIssue)
		if err != nil {
			return nil, fmt.Errorf("configuring github issue sink: %w", err)
		}
		notifiers = append(notifiers, sink)
		slog.Info("github issue sink enabled", "issue", cfg.GitHubIssue)
	}

	return notifiers, nil
}

// buildCheckService wires the full fetch, scan and notify pipeline. reg may be
// nil, in which case run metrics are not recorded.
func buildCheckService(cfg *config.Config, reg prometheus.Registerer) (*application.CheckService, error) {
	notifiers, err := buildNotifiers(cfg)
	if err != nil {
		return nil, err
	}

	var observer driven.RunObserver
	if reg != nil {
		observer = metrics.NewRecorder(reg)
	}

	dispatcher := application.NewDispatcher(notifiers, cfg.Concurrency, observer)
	return application.NewCheckService(buildDirectory(cfg), dispatcher, observer), nil
}

// buildPreviewService wires a check service with no notifiers, for listing
// only.
func buildPreviewService(cfg *config.Config) *application.CheckService {
	dispatcher := application.NewDispatcher(nil, cfg.Concurrency, nil)
	return application.NewCheckService(buildDirectory(cfg), dispatcher, nil)
}
