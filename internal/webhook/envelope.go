package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload means the verified body is not a usable event envelope.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// Envelope is the outer shape of every provider event. Data varies by event
// kind and is left opaque here; handlers that need it fetch authoritative
// detail from the provider instead of trusting the pushed payload.
type Envelope struct {
	Event     string          `json:"event"`
	Reference string          `json:"reference,omitempty"`
	ID        string          `json:"id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// ParseEnvelope decodes a raw body into an event envelope. Callers must only
// pass bodies whose signature has already been accepted; no handler ever sees
// an envelope derived from an unverified payload.
func ParseEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("%w: missing event field", ErrMalformedPayload)
	}
	return &env, nil
}
