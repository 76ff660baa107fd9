// Package config loads application configuration from environment variables
// and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericfisherdev/spexpiry/internal/adapter/driven/graph"
)

// Config holds the application configuration. Secrets (client secret, GitHub
// token) are expected from the environment; every field may also be set in the
// YAML file named by SPEXPIRY_CONFIG, which environment variables override.
type Config struct {
	ClientID      string        `yaml:"client_id"`
	TenantID      string        `yaml:"tenant_id"`
	ClientSecret  string        `yaml:"client_secret"`
	TeamsWebhook  string        `yaml:"teams_webhook"`
	AuthorityHost string        `yaml:"authority_host"`
	GraphBaseURL  string        `yaml:"graph_base_url"`
	ListenAddr    string        `yaml:"listen_addr"`
	FunctionName  string        `yaml:"function_name"`
	RunInterval   time.Duration `yaml:"run_interval"`
	RunOnStart    bool          `yaml:"run_on_start"`
	HTTPTimeout   time.Duration `yaml:"http_timeout"`
	Concurrency   int           `yaml:"concurrency"`
	GitHubToken   string        `yaml:"github_token"`
	GitHubIssue   string        `yaml:"github_issue"`
	LogLevel      string        `yaml:"log_level"`
	LogFormat     string        `yaml:"log_format"`
}

// defaults returns the configuration used when nothing is set.
func defaults() Config {
	return Config{
		AuthorityHost: graph.DefaultAuthorityHost,
		GraphBaseURL:  graph.DefaultBaseURL,
		ListenAddr:    "127.0.0.1:8080",
		FunctionName:  "Daily",
		HTTPTimeout:   30 * time.Second,
		Concurrency:   4,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// HasGitHubSink returns true when both GitHubToken and GitHubIssue are set.
func (c *Config) HasGitHubSink() bool {
	return c.GitHubToken != "" && c.GitHubIssue != ""
}

// Validate checks that the settings needed to query the directory are present
// and, when needWebhook is set, that a webhook target is configured.
func (c *Config) Validate(needWebhook bool) error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "CLIENT_ID")
	}
	if c.TenantID == "" {
		missing = append(missing, "TENANT_ID")
	}
	if c.ClientSecret == "" {
		missing = append(missing, "CLIENT_SECRET")
	}
	if needWebhook && c.TeamsWebhook == "" {
		missing = append(missing, "TEAMS_WEBHOOK")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if (c.GitHubToken == "") != (c.GitHubIssue == "") {
		return errors.New("GITHUB_TOKEN and GITHUB_ISSUE must be set together")
	}

	return nil
}

// Load reads configuration from the optional YAML file and the environment and
// returns it. Required variables are not checked here; call Validate.
// Recognized variables: CLIENT_ID, TENANT_ID, CLIENT_SECRET, TEAMS_WEBHOOK,
// AUTHORITY_HOST, GRAPH_BASE_URL, SPEXPIRY_LISTEN_ADDR (falls back to
// FUNCTIONS_CUSTOMHANDLER_PORT), SPEXPIRY_FUNCTION_NAME, SPEXPIRY_RUN_INTERVAL,
// SPEXPIRY_RUN_ON_START, SPEXPIRY_HTTP_TIMEOUT, SPEXPIRY_CONCURRENCY,
// GITHUB_TOKEN, GITHUB_ISSUE, LOG_LEVEL, LOG_FORMAT.
func Load() (*Config, error) {
	cfg := defaults()

	if path, ok := os.LookupEnv("SPEXPIRY_CONFIG"); ok && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("SPEXPIRY_CONFIG: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("SPEXPIRY_CONFIG: parsing %s: %w", path, err)
		}
	}

	stringVar(&cfg.ClientID, "CLIENT_ID")
	stringVar(&cfg.TenantID, "TENANT_ID")
	stringVar(&cfg.ClientSecret, "CLIENT_SECRET")
	stringVar(&cfg.TeamsWebhook, "TEAMS_WEBHOOK")
	stringVar(&cfg.AuthorityHost, "AUTHORITY_HOST")
	stringVar(&cfg.GraphBaseURL, "GRAPH_BASE_URL")
	stringVar(&cfg.FunctionName, "SPEXPIRY_FUNCTION_NAME")
	stringVar(&cfg.GitHubToken, "GITHUB_TOKEN")
	stringVar(&cfg.GitHubIssue, "GITHUB_ISSUE")
	stringVar(&cfg.LogLevel, "LOG_LEVEL")
	stringVar(&cfg.LogFormat, "LOG_FORMAT")

	// The Functions host tells a custom handler which port to bind.
	if v, ok := os.LookupEnv("FUNCTIONS_CUSTOMHANDLER_PORT"); ok && v != "" {
		cfg.ListenAddr = ":" + v
	}
	stringVar(&cfg.ListenAddr, "SPEXPIRY_LISTEN_ADDR")

	if err := durationVar(&cfg.RunInterval, "SPEXPIRY_RUN_INTERVAL"); err != nil {
		return nil, err
	}
	if err := durationVar(&cfg.HTTPTimeout, "SPEXPIRY_HTTP_TIMEOUT"); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("SPEXPIRY_RUN_ON_START"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SPEXPIRY_RUN_ON_START has invalid boolean %q: %w", v, err)
		}
		cfg.RunOnStart = parsed
	}

	if v, ok := os.LookupEnv("SPEXPIRY_CONCURRENCY"); ok && v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("SPEXPIRY_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.Concurrency = parsed
	}

	if cfg.RunInterval < 0 {
		return nil, fmt.Errorf("SPEXPIRY_RUN_INTERVAL must not be negative, got %s", cfg.RunInterval)
	}

	return &cfg, nil
}

func stringVar(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func durationVar(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	*dst = parsed
	return nil
}
