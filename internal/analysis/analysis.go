package analysis

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when neither a flag nor SRCSCOUT_API_URL names an endpoint.
	DefaultBaseURL = "http://localhost:3000"
	// DefaultRetryAfter is the cooldown, in seconds, applied when a rate-limited
	// response carries no usable retryAfter value.
	DefaultRetryAfter = 120

	baseURLEnvVar = "SRCSCOUT_API_URL"
	timeoutEnvVar = "SRCSCOUT_HTTP_TIMEOUT"
	analyzePath   = "/analyze"
)

// Large source trees can take the remote service minutes to digest.
const defaultHTTPTimeout = 3 * time.Minute

// Config describes how to build an analysis client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// File is one named source file sent to the analysis endpoint.
type File struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Request is the body of POST /analyze.
type Request struct {
	Question string `json:"question"`
	Files    []File `json:"files"`
}

// Analyzer submits a question plus source files and classifies the reply.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (Outcome, error)
	Endpoint() string
}

// NewFromEnv resolves the endpoint and timeout from cfg, falling back to the
// environment and then to the built-in defaults.
func NewFromEnv(cfg Config) (Analyzer, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		if env := strings.TrimSpace(os.Getenv(baseURLEnvVar)); env != "" {
			base = env
		} else {
			base = DefaultBaseURL
		}
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return nil, fmt.Errorf("analysis endpoint %q must start with http:// or https://", base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		if env := strings.TrimSpace(os.Getenv(timeoutEnvVar)); env != "" {
			parsed, err := time.ParseDuration(env)
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", timeoutEnvVar, err)
			}
			timeout = parsed
		}
	}
	return &httpClient{
		base:   base,
		client: pickHTTPClient(cfg.HTTPClient, timeout),
	}, nil
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
