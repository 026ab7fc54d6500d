package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[{"type":"message"}]}`)

	t.Run("accepts valid signature", func(t *testing.T) {
		assert.True(t, ValidateSignature(secret, sign(secret, body), body))
	})

	t.Run("rejects signature from wrong secret", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, sign("other-secret", body), body))
	})

	t.Run("rejects tampered body", func(t *testing.T) {
		signature := sign(secret, body)
		assert.False(t, ValidateSignature(secret, signature, []byte(`{"events":[]}`)))
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, "not base64!!!", body))
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		assert.False(t, ValidateSignature(secret, "", body))
	})
}
