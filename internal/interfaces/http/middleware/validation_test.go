package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
	Flow  string `json:"flow" binding:"required,oneof=in out"`
}

func TestFormatValidationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	bind := func(body string) error {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req validatedRequest
		return c.ShouldBindJSON(&req)
	}

	t.Run("field details use json names", func(t *testing.T) {
		err := bind(`{"email":"not-an-email","name":"x","flow":"sideways"}`)
		require.Error(t, err)

		response := FormatValidationErrors(err, "req-123")
		assert.False(t, response.Success)
		require.NotNil(t, response.Error)
		assert.Equal(t, "req-123", response.Error.RequestID)
		require.Len(t, response.Error.Details, 3)

		fields := make(map[string]string)
		for _, detail := range response.Error.Details {
			fields[detail.Field] = detail.Message
		}
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be at least 2 characters", fields["name"])
		assert.Equal(t, "Must be one of: in out", fields["flow"])
	})

	t.Run("non-validator errors carry no details", func(t *testing.T) {
		err := bind(`{invalid json`)
		require.Error(t, err)

		response := FormatValidationErrors(err, "")
		assert.False(t, response.Success)
		require.NotNil(t, response.Error)
		assert.Empty(t, response.Error.Details)
	})
}
