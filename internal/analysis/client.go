package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
)

const maxReplyBytes = 16 << 20

type httpClient struct {
	base   string
	client *http.Client
}

func (c *httpClient) Endpoint() string {
	return c.base + analyzePath
}

func (c *httpClient) Analyze(ctx context.Context, req Request) (Outcome, error) {
	if req.Files == nil {
		req.Files = []File{}
	}
	buf, err := json.Marshal(req)
	if err != nil {
		return Outcome{}, err
	}

	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(buf))
	if err != nil {
		return Outcome{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	log.Printf("[analysis] %s POST %s (files=%d, bytes=%d)", requestID, c.Endpoint(), len(req.Files), len(buf))
	resp, err := c.client.Do(httpReq)
	if err != nil {
		log.Printf("[analysis] %s transport error: %v", requestID, err)
		return Outcome{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: read reply: %w", ErrTransport, err)
	}
	outcome, err := Classify(resp.StatusCode, body)
	if err != nil {
		log.Printf("[analysis] %s %s: %v", requestID, resp.Status, err)
		return Outcome{}, err
	}
	outcome.RequestID = requestID
	if outcome.Kind == RateLimited {
		log.Printf("[analysis] %s rate limit hit, retry in %d seconds", requestID, outcome.RetryAfter)
	} else {
		log.Printf("[analysis] %s %s (%s)", requestID, resp.Status, outcome.Kind)
	}
	return outcome, nil
}
