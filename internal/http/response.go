package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	inErrors "github.com/Alturino/lairai/internal/errors"
	"github.com/Alturino/lairai/internal/otel"
)

func WriteJsonResponse(
	c context.Context,
	w http.ResponseWriter,
	header map[string]string,
	body map[string]interface{},
) {
	c, span := otel.Tracer.Start(c, "WriteJsonResponse")
	defer span.End()

	logger := zerolog.Ctx(c).With().Str("tag", "WriteJsonResponse").Logger()

	w.Header().Set(KEY_HEADER_CONTENT_TYPE, VALUE_HEADER_APPLICATION_JSON)
	for k, v := range header {
		w.Header().Add(k, v)
	}

	if v, ok := body["statusCode"]; ok {
		w.WriteHeader(v.(int))
	}

	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
}

func WriteSuccess(c context.Context, w http.ResponseWriter, statusCode int, message string, data map[string]interface{}) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     STATUS_SUCCESS,
		"statusCode": statusCode,
		"message":    message,
		"data":       data,
	})
}

func WriteFailed(c context.Context, w http.ResponseWriter, statusCode int, message string) {
	WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     STATUS_FAILED,
		"statusCode": statusCode,
		"message":    message,
	})
}

// StatusCodeFromError maps domain errors to gateway status codes. Backend
// failures surface as 502 unless the backend reported a client error.
func StatusCodeFromError(err error) int {
	var apiErr *inErrors.APIError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, inErrors.ErrSessionNotOpen),
		errors.Is(err, inErrors.ErrMenuItemNotFound),
		errors.Is(err, inErrors.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrSessionAlreadyOpen),
		errors.Is(err, inErrors.ErrSubmissionPending),
		errors.Is(err, inErrors.ErrSessionLoading),
		errors.Is(err, inErrors.ErrOrderNotPending),
		errors.Is(err, inErrors.ErrPaymentNotConfirmed):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrInvalidDateRange),
		errors.Is(err, inErrors.ErrInvalidRequest),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, inErrors.ErrHydrationFailed):
		return http.StatusBadGateway
	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
