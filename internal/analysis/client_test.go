package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientAnalyzePostsQuestionAndFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("unexpected content type: %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request id header")
		}
		var payload Request
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if payload.Question != "What does main do?" {
			t.Errorf("unexpected question: %q", payload.Question)
		}
		if len(payload.Files) != 2 || payload.Files[1].Name != "lib/util.rs" || payload.Files[1].Content != "fn util() {}" {
			t.Errorf("unexpected files: %#v", payload.Files)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"It prints hello."}`))
	}))
	defer server.Close()

	client := &httpClient{base: server.URL, client: server.Client()}
	outcome, err := client.Analyze(context.Background(), Request{
		Question: "What does main do?",
		Files: []File{
			{Name: "main.rs", Content: "fn main() {}"},
			{Name: "lib/util.rs", Content: "fn util() {}"},
		},
	})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if outcome.Kind != Answered {
		t.Fatalf("expected answered outcome, got %s", outcome.Kind)
	}
	if outcome.Answer != "It prints hello." {
		t.Fatalf("unexpected answer: %q", outcome.Answer)
	}
	if outcome.RequestID == "" {
		t.Fatal("outcome should carry the request id")
	}
}

func TestHTTPClientAnalyzeRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit","retryAfter":"45"}`))
	}))
	defer server.Close()

	client := &httpClient{base: server.URL, client: server.Client()}
	outcome, err := client.Analyze(context.Background(), Request{Question: "q", Files: []File{{Name: "a", Content: "b"}}})
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if outcome.Kind != RateLimited {
		t.Fatalf("expected rate limited outcome, got %s", outcome.Kind)
	}
	if outcome.RetryAfter != 45 {
		t.Fatalf("expected retryAfter 45, got %d", outcome.RetryAfter)
	}
}

func TestHTTPClientAnalyzeRateLimitedWithStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Too Many Requests"},"retryAfter":30}`))
	}))
	defer server.Close()

	client := &httpClient{base: server.URL, client: server.Client()}
	outcome, err := client.Analyze(context.Background(), Request{Question: "q", Files: []File{{Name: "a", Content: "b"}}})
	if err != nil {
		t.Fatalf("a 429 with a structured error should still classify, got %v", err)
	}
	if outcome.Kind != RateLimited || outcome.RetryAfter != 30 {
		t.Fatalf("expected rate limited for 30s, got %s for %ds", outcome.Kind, outcome.RetryAfter)
	}
}

func TestHTTPClientAnalyzeSendsEmptyFileArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if string(payload["files"]) != "[]" {
			t.Errorf("files should encode as an empty array, got %s", payload["files"])
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := &httpClient{base: server.URL, client: server.Client()}
	if _, err := client.Analyze(context.Background(), Request{Question: "q"}); err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
}

func TestHTTPClientAnalyzeTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := &httpClient{base: url, client: &http.Client{}}
	_, err := client.Analyze(context.Background(), Request{Question: "q"})
	if err == nil {
		t.Fatal("expected an error for a closed server")
	}
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestHTTPClientAnalyzeNonJSONReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	client := &httpClient{base: server.URL, client: server.Client()}
	_, err := client.Analyze(context.Background(), Request{Question: "q"})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for undecodable reply, got %v", err)
	}
}
