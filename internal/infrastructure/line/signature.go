// Package line integrates with the LINE Messaging API: webhook signature
// verification and outbound pushes.
package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// ValidateSignature verifies the X-Line-Signature header against the raw
// request body. The signature is the base64 of HMAC-SHA256(body) keyed with
// the channel secret; comparison is constant time.
func ValidateSignature(channelSecret string, signature string, body []byte) bool {
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)

	return hmac.Equal(decoded, mac.Sum(nil))
}
