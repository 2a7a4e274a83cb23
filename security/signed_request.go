package security

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

// SignedRequest guards the public endpoints that run without a session:
// callers must send nonce, timestamp, and signature headers where
// signature = md5(secret + "&" + nonce + "&" + timestamp).
type SignedRequest struct {
	secret string
}

func NewSignedRequest(secret string) *SignedRequest {
	return &SignedRequest{secret: secret}
}

// Signature computes the expected header value.
func Signature(secret, nonce, timestamp string) string {
	sum := md5.Sum([]byte(secret + "&" + nonce + "&" + timestamp))
	return hex.EncodeToString(sum[:])
}

func (m *SignedRequest) Require() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		e.Response.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

		nonce := e.Request.Header.Get("nonce")
		timestamp := e.Request.Header.Get("timestamp")
		signature := e.Request.Header.Get("signature")

		if nonce == "" || timestamp == "" || signature == "" {
			return apis.NewUnauthorizedError("Header parameters are missing.", nil)
		}

		expected := Signature(m.secret, nonce, timestamp)
		if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
			return apis.NewForbiddenError("Permission denied.", nil)
		}

		return e.Next()
	}
}
