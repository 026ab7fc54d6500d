package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhoneNumber(t *testing.T) {
	t.Run("finds local mobile number in text", func(t *testing.T) {
		got := ExtractPhoneNumber("ร้านผลไม้ ติดต่อ 081-234-5678 ครับ")
		assert.Equal(t, "+66812345678", got)
	})

	t.Run("finds international format", func(t *testing.T) {
		got := ExtractPhoneNumber("call me at +66812345678 anytime")
		assert.Equal(t, "+66812345678", got)
	})

	t.Run("returns first valid number", func(t *testing.T) {
		got := ExtractPhoneNumber("0812345678 or 0898765432")
		assert.Equal(t, "+66812345678", got)
	})

	t.Run("ignores digit runs that are not phone numbers", func(t *testing.T) {
		assert.Equal(t, "", ExtractPhoneNumber("order 12345 was 999 baht"))
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Equal(t, "", ExtractPhoneNumber(""))
	})
}

func TestNormalizePhoneNumber(t *testing.T) {
	t.Run("normalizes local format to E164", func(t *testing.T) {
		assert.Equal(t, "+66812345678", NormalizePhoneNumber("081-234-5678"))
	})

	t.Run("passes through E164", func(t *testing.T) {
		assert.Equal(t, "+66812345678", NormalizePhoneNumber("+66812345678"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", NormalizePhoneNumber(""))
	})

	t.Run("garbage input", func(t *testing.T) {
		assert.Equal(t, "", NormalizePhoneNumber("not a number"))
	})
}
