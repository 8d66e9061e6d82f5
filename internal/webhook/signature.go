package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSecretNotConfigured is an operational fault: verification cannot run
	// at all without a signing secret.
	ErrSecretNotConfigured = errors.New("webhook signing secret is not configured")

	// ErrNoV1Signature means the signature header carries no recognized v1 token.
	ErrNoV1Signature = errors.New("no v1 signature in header")
)

// signedContent builds the canonical content the sender signed: delivery id,
// timestamp, and the raw body joined by periods. The body goes in verbatim;
// re-encoding the JSON produces a different signature.
func signedContent(deliveryID, timestamp string, body []byte) []byte {
	buf := make([]byte, 0, len(deliveryID)+len(timestamp)+len(body)+2)
	buf = append(buf, deliveryID...)
	buf = append(buf, '.')
	buf = append(buf, timestamp...)
	buf = append(buf, '.')
	buf = append(buf, body...)
	return buf
}

// signingKey decodes the shared secret into raw key bytes. Secrets carry an
// optional key-identifier prefix ("whsec_<base64>"); everything up to and
// including the first underscore is discarded before base64 decoding.
func signingKey(secret string) ([]byte, error) {
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}
	if i := strings.IndexByte(secret, '_'); i >= 0 {
		secret = secret[i+1:]
	}
	key, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	return key, nil
}

// Sign computes the base64 HMAC-SHA256 signature for a delivery. Exported for
// senders in tests and for operator tooling.
func Sign(deliveryID, timestamp string, body []byte, secret string) (string, error) {
	key, err := signingKey(secret)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(signedContent(deliveryID, timestamp, body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// extractV1 pulls the candidate signature out of a space-separated list of
// versioned tokens ("v1,<base64>" or "v1=<base64>"). Tokens of any other
// version are ignored.
func extractV1(header string) (string, bool) {
	for _, tok := range strings.Fields(header) {
		if rest, ok := strings.CutPrefix(tok, "v1,"); ok {
			return rest, true
		}
		if rest, ok := strings.CutPrefix(tok, "v1="); ok {
			return rest, true
		}
	}
	return "", false
}

// Verify reports whether the signature header matches the expected HMAC for
// this delivery. A mismatch is a normal false outcome, not an error; errors
// are reserved for an unconfigured secret and headers with no v1 token.
func Verify(deliveryID, timestamp string, body []byte, sigHeader, secret string) (bool, error) {
	candidate, ok := extractV1(sigHeader)
	if !ok {
		return false, ErrNoV1Signature
	}

	key, err := signingKey(secret)
	if err != nil {
		return false, err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(signedContent(deliveryID, timestamp, body))
	expected := mac.Sum(nil)

	got, err := base64.StdEncoding.DecodeString(candidate)
	if err != nil {
		// An undecodable candidate can never match; treat as plain mismatch.
		return false, nil
	}
	if len(got) != len(expected) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(expected, got) == 1, nil
}
