package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrNetwork indicates the request to the generation service could not
// complete: DNS, connection, TLS or timeout failures.
type ErrNetwork struct {
	Err error
}

func (e *ErrNetwork) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation service unreachable: %v", e.Err)
	}
	return "generation service unreachable"
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrUpstream indicates the generation service answered with a non-success
// status or an error payload.
type ErrUpstream struct {
	StatusCode int
	Err        error
}

func (e *ErrUpstream) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("generation service returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("generation service error: %v", e.Err)
}

func (e *ErrUpstream) Unwrap() error { return e.Err }

// ErrRateLimit indicates the provider returned a rate limit error (429).
// It is reported as an upstream failure with status 429.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the service answered successfully but the
// envelope or content is unusable: no choices, no text, or content that
// fails the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// upstreamFromStatus maps an HTTP status from a provider SDK error to the
// matching typed failure.
func upstreamFromStatus(status int, err error) error {
	switch {
	case status == 429:
		return &ErrRateLimit{Err: err}
	case status > 0:
		return &ErrUpstream{StatusCode: status, Err: err}
	}
	return &ErrNetwork{Err: err}
}
