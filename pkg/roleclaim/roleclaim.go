// Package roleclaim issues and verifies the compact signed cookie that
// carries a user's role for fast-path routing decisions. The token is
// "<role>|<expiresEpochSeconds>.<signature>" where the signature is an
// HMAC-SHA256 over the payload, raw URL base64 encoded.
package roleclaim

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// CookieName is the conventional cookie the claim travels in.
const CookieName = "ds_role"

// Issue builds a signed claim for the role, valid for ttl from now.
func Issue(role string, ttl time.Duration, secret string) string {
	return IssueAt(role, time.Now().Add(ttl), secret)
}

// IssueAt builds a signed claim expiring at the given instant.
func IssueAt(role string, expiresAt time.Time, secret string) string {
	payload := role + "|" + strconv.FormatInt(expiresAt.Unix(), 10)
	return payload + "." + sign(payload, secret)
}

// Verify checks a claim token and returns the embedded role. A claim is
// valid only while unexpired and signature-correct; with no secret
// configured, only an unsigned token (empty signature segment) passes.
// Any malformed token is invalid; Verify never panics.
func Verify(token, secret string, now time.Time) (string, bool) {
	dot := strings.LastIndex(token, ".")
	if dot < 0 {
		return "", false
	}
	payload := token[:dot]
	signature := token[dot+1:]

	sep := strings.LastIndex(payload, "|")
	if sep < 0 {
		return "", false
	}
	role := payload[:sep]
	if role == "" {
		return "", false
	}

	expires, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return "", false
	}
	if expires <= now.Unix() {
		return "", false
	}

	if secret == "" {
		// Insecure dev-only fallback: accept only explicitly unsigned claims.
		if signature != "" {
			return "", false
		}
		return role, true
	}

	expected := sign(payload, secret)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}
	return role, true
}

func sign(payload, secret string) string {
	if secret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
