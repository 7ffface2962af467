package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/Alturino/lairai/internal/errors"
)

func TestStatusCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "given session still loading should return conflict",
			err:      fmt.Errorf("failed Add with error=%w", inErrors.ErrSessionLoading),
			expected: http.StatusConflict,
		},
		{
			name:     "given failed hydration should return bad gateway",
			err:      errors.Join(inErrors.ErrHydrationFailed, &inErrors.APIError{StatusCode: 500}),
			expected: http.StatusBadGateway,
		},
		{
			name:     "given pending submission should return conflict",
			err:      inErrors.ErrSubmissionPending,
			expected: http.StatusConflict,
		},
		{
			name:     "given session not open should return not found",
			err:      inErrors.ErrSessionNotOpen,
			expected: http.StatusNotFound,
		},
		{
			name:     "given invalid request should return bad request",
			err:      fmt.Errorf("failed parsing tableId=x with error=%w", inErrors.ErrInvalidRequest),
			expected: http.StatusBadRequest,
		},
		{
			name:     "given backend client error should keep its status",
			err:      &inErrors.APIError{StatusCode: http.StatusUnprocessableEntity, Message: "invalid items"},
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "given backend server error should return bad gateway",
			err:      &inErrors.APIError{StatusCode: http.StatusInternalServerError},
			expected: http.StatusBadGateway,
		},
		{
			name:     "given unknown error should return internal server error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, StatusCodeFromError(test.err))
		})
	}
}
