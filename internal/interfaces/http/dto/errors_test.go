package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"EMAIL_TAKEN", http.StatusConflict},
		{"TOKEN_EXPIRED", http.StatusUnauthorized},
		{"APPROVAL_PENDING", http.StatusForbidden},
		{"SCHEDULE_MISMATCH", http.StatusUnprocessableEntity},
		{"LAST_INSTALLMENT", http.StatusUnprocessableEntity},
		{"INVALID_BILL_NUMBER", http.StatusBadRequest},
		{"INVALID_SIGNATURE", http.StatusBadRequest},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			assert.Equal(t, tc.want, GetHTTPStatus(tc.code))
		})
	}
}
