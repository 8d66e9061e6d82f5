// Package webhook implements the inbound Maplerad webhook endpoint: Svix-style
// HMAC-SHA256 signature verification over raw request bytes, event envelope
// parsing, and idempotent reconciliation of local card, account, and
// transaction records against provider callbacks.
//
// # Security Model
//
//   - Signatures are computed over the exact bytes received, never over
//     re-serialized JSON
//   - Canonical signed content is "<svix-id>.<svix-timestamp>.<body>"
//   - Signing secrets may carry a key-identifier prefix ("whsec_..."); only
//     the base64 payload after the first underscore is the key
//   - Comparison uses crypto/subtle (constant-time) after base64 decoding
//   - Body size limits are enforced before any verification work
//
// # Request Flow
//
//  1. HTTP POST arrives with svix-id, svix-timestamp, svix-signature headers
//  2. Missing headers reject with 400 before any HMAC work
//  3. Signature verified against the raw body (400 on mismatch, 500 only if
//     the signing secret is absent)
//  4. Body parsed into an event envelope (400 on malformed JSON)
//  5. Envelope routed to its reconciliation handler by event name
//  6. 200 acknowledged regardless of reconciliation outcome
//
// Webhook senders retry on non-2xx responses. Once a delivery is verified and
// parsed it is always acknowledged: reconciliation failures need operator
// attention, not a resend, and unknown events must not cause retry storms.
// Handlers are idempotent, so the at-least-once redelivery that does happen
// converges to the same record state.
package webhook
