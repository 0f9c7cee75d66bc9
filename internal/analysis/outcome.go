package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ErrTransport marks a request that could not be completed, or whose reply
// is not JSON.
var ErrTransport = errors.New("analysis request failed")

// OutcomeKind classifies a completed HTTP exchange.
type OutcomeKind int

const (
	// Answered is a 2xx reply. Answer may still be empty.
	Answered OutcomeKind = iota
	// RateLimited is a 429 reply, or any reply whose error mentions "rate limit".
	RateLimited
	// Rejected is any other non-2xx reply.
	Rejected
)

func (k OutcomeKind) String() string {
	switch k {
	case Answered:
		return "answered"
	case RateLimited:
		return "rate-limited"
	case Rejected:
		return "rejected"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the classified reply of the analysis endpoint.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	// Answer is the raw answer field of a 2xx reply.
	Answer string
	// Message is the raw error field of a non-2xx or rate-limited reply.
	Message string
	// RetryAfter is the cooldown in seconds; set only for RateLimited.
	RetryAfter int
	RequestID  string
}

// replyBody holds the fields Classify reads. A field that is missing or not a
// string is left empty; a body that is valid JSON but not an object has no
// fields at all.
type replyBody struct {
	Answer     string
	Error      string
	RetryAfter json.RawMessage
}

func decodeReply(body []byte) (replyBody, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		var other any
		if err := json.Unmarshal(body, &other); err != nil {
			return replyBody{}, err
		}
		return replyBody{}, nil
	}
	return replyBody{
		Answer:     stringField(fields, "answer"),
		Error:      stringField(fields, "error"),
		RetryAfter: fields["retryAfter"],
	}, nil
}

func stringField(fields map[string]json.RawMessage, name string) string {
	var value string
	if err := json.Unmarshal(fields[name], &value); err != nil {
		return ""
	}
	return value
}

// Classify decodes a reply body and sorts it into an Outcome. A status of 429
// and an error field containing "rate limit" (any case) are each enough to
// mark the reply as rate limited, whatever the status code. Only a body that
// is not JSON at all is an error.
func Classify(status int, body []byte) (Outcome, error) {
	parsed, err := decodeReply(body)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: decode reply (status %d): %w", ErrTransport, status, err)
	}

	outcome := Outcome{StatusCode: status}
	switch {
	case status == 429 || strings.Contains(strings.ToLower(parsed.Error), "rate limit"):
		outcome.Kind = RateLimited
		outcome.Message = parsed.Error
		outcome.RetryAfter = ParseRetryAfter(parsed.RetryAfter)
	case status < 200 || status > 299:
		outcome.Kind = Rejected
		outcome.Message = parsed.Error
	default:
		outcome.Kind = Answered
		outcome.Answer = parsed.Answer
	}
	return outcome, nil
}

// ParseRetryAfter reads a retryAfter value that may be a JSON string or number.
// Strings are read up to the first non-digit ("45s" is 45), numbers are
// truncated toward zero. Absent, zero, false, empty or unreadable values yield
// DefaultRetryAfter.
func ParseRetryAfter(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return DefaultRetryAfter
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return DefaultRetryAfter
	}
	switch v := value.(type) {
	case string:
		if n, ok := leadingInt(v); ok {
			return n
		}
	case float64:
		if v != 0 && v > -1e9 && v < 1e9 {
			return int(v)
		}
	}
	return DefaultRetryAfter
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = "-"
		}
		s = s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
