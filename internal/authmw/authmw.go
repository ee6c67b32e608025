// Package authmw provides HTTP middleware for the two intake trust
// boundaries: bearer-token authentication for synchronous tool calls and
// HMAC signature verification for asynchronous platform webhooks. The two
// gates use separate credentials.
package authmw

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
)

// SignatureHeader carries the sender's hex-encoded HMAC-SHA256 signature of
// the raw request body. An optional "sha256=" prefix is tolerated.
const SignatureHeader = "X-Webhook-Signature"

// BearerToken returns middleware that validates the Authorization header
// contains a Bearer token matching the expected value. Comparison uses
// constant-time equality to prevent timing side-channel attacks.
func BearerToken(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(auth[len("Bearer "):])

			if subtle.ConstantTimeCompare(got, expected) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// VerifySignature reports whether provided is a valid hex-encoded HMAC-SHA256
// signature of body under secret. An empty secret passes unconditionally:
// that is the explicit permissive mode for local operation, and the caller is
// responsible for flagging it as a degraded-security state at startup. A
// configured secret with a missing signature fails.
func VerifySignature(body []byte, provided, secret string) bool {
	if secret == "" {
		return true
	}
	if provided == "" {
		return false
	}
	provided = strings.TrimPrefix(provided, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	want := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(provided), []byte(want)) == 1
}

// Signature returns middleware that verifies the request body's HMAC
// signature before any processing. The body is read in full and restored so
// downstream handlers see it untouched; an unverified payload never reaches
// them.
func Signature(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, `{"error":"failed to read request body"}`, http.StatusBadRequest)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			if !VerifySignature(body, r.Header.Get(SignatureHeader), secret) {
				http.Error(w, `{"error":"invalid webhook signature"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
