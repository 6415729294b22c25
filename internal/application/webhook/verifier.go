package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// VerifySignature checks a webhook delivery signature.
//
// Shopify signs the exact raw request body with HMAC-SHA256 keyed by the
// app's shared secret and sends the base64 digest in X-Shopify-Hmac-Sha256.
// The body must be verified byte-for-byte before any JSON parsing; parsing
// and re-serializing would change the bytes and break the digest.
//
// Returns false for any malformed input. Never panics and never errors:
// a bad signature is a routine condition, not an exceptional one.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}

	expected, err := base64.StdEncoding.DecodeString(signatureHeader)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)

	return hmac.Equal(mac.Sum(nil), expected)
}
