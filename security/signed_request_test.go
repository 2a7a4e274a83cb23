package security

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	sum := md5.Sum([]byte("app-secret&nonce123&1700000000"))
	expected := hex.EncodeToString(sum[:])

	assert.Equal(t, expected, Signature("app-secret", "nonce123", "1700000000"))
}

func TestSignature_InputSensitivity(t *testing.T) {
	base := Signature("app-secret", "nonce123", "1700000000")

	assert.NotEqual(t, base, Signature("other-secret", "nonce123", "1700000000"))
	assert.NotEqual(t, base, Signature("app-secret", "nonce124", "1700000000"))
	assert.NotEqual(t, base, Signature("app-secret", "nonce123", "1700000001"))
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"Valid bearer", "Bearer aaa.bbb.ccc", "aaa.bbb.ccc"},
		{"Missing prefix", "aaa.bbb.ccc", ""},
		{"Wrong scheme", "Basic aaa.bbb.ccc", ""},
		{"Not a JWT shape", "Bearer sometoken", ""},
		{"Too many segments", "Bearer a.b.c.d", ""},
		{"Empty header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, bearerToken(tt.header))
		})
	}
}
