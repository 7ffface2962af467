// Package controller exposes the front-of-house operations over HTTP using
// the JSON envelope {status, statusCode, message, data}.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	inErrors "github.com/Alturino/lairai/internal/errors"
	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/otel"
)

func pathID(r *http.Request, name string) (int64, error) {
	value := mux.Vars(r)[name]
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("failed parsing %s=%s with error=%w", name, value, inErrors.ErrInvalidRequest)
	}
	return id, nil
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed decoding request body with error=%w: %w", inErrors.ErrInvalidRequest, err)
	}
	return nil
}

// badRequest answers 400 for malformed input that never reached a service.
func badRequest(c context.Context, w http.ResponseWriter, span trace.Span, logger zerolog.Logger, err error) {
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteFailed(c, w, http.StatusBadRequest, err.Error())
}

// failed answers with the status mapped from err.
func failed(c context.Context, w http.ResponseWriter, span trace.Span, logger zerolog.Logger, err error) {
	otel.RecordError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	inHttp.WriteFailed(c, w, inHttp.StatusCodeFromError(err), err.Error())
}
