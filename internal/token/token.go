// Package token implements the signed click token binding a click to the
// exact impression that produced it. A token is the HMAC-SHA256 digest of
// day|device|position|adId under a shared secret, so a click URL is
// self-certifying: the server keeps no impression state and a token cannot
// be forged for a different ad, slot, day or device without the secret.
//
// Tokens carry no expiry or nonce. A valid click link stays valid until the
// corresponding day's counters have long expired; replay within that window
// is an accepted property of the scheme.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
)

// Issue signs (day, device, position, adID) and returns the URL-safe token.
func Issue(secret []byte, day, device, position, adID string) string {
	return base64.RawURLEncoding.EncodeToString(digest(secret, day, device, position, adID))
}

// Verify recomputes the expected token from the fields presented on the
// click request and compares it with the presented token. Any mismatch,
// including a malformed or truncated token, is a verification failure.
func Verify(secret []byte, day, device, position, adID, presented string) bool {
	if presented == "" {
		return false
	}
	got, err := base64.RawURLEncoding.DecodeString(presented)
	if err != nil {
		return false
	}
	return hmac.Equal(digest(secret, day, device, position, adID), got)
}

func digest(secret []byte, day, device, position, adID string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strings.Join([]string{day, device, position, adID}, "|")))
	return mac.Sum(nil)
}
