package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxSkew is how far a signed timestamp may drift from local time before the
// payload is rejected as a replay
const MaxSkew = 5 * time.Minute

var (
	// ErrBadSignature is returned when the signature header does not match
	// the payload
	ErrBadSignature = errors.New("webhook signature mismatch")
	// ErrStaleTimestamp is returned when the signed timestamp is outside the
	// replay window
	ErrStaleTimestamp = errors.New("webhook timestamp outside replay window")
)

// Sign computes the signature header value for a payload.
// The signed string is {timestamp}.{event_id}.{json_body} so a verifier can
// check replay protection, deduplicate by event id, and validate the body in
// one pass. Format: "sha256=<hex_signature>".
func Sign(secret string, timestamp int64, eventID string, payload []byte) string {
	signaturePayload := fmt.Sprintf("%d.%s.%s", timestamp, eventID, string(payload))

	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(signaturePayload))
	return "sha256=" + hex.EncodeToString(h.Sum(nil))
}

// Verify checks an inbound payload against its signature header and replay
// window. now is injected for testability.
func Verify(secret, signature string, timestamp int64, eventID string, payload []byte, now time.Time) error {
	if !strings.HasPrefix(signature, "sha256=") {
		return ErrBadSignature
	}

	skew := now.Unix() - timestamp
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(MaxSkew.Seconds()) {
		return ErrStaleTimestamp
	}

	expected := Sign(secret, timestamp, eventID, payload)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadSignature
	}
	return nil
}
