// Package backend is the request/response collaborator for the restaurant
// REST backend. Every call returns either the decoded envelope data or an
// *errors.APIError carrying a human readable message.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alturino/lairai/internal/config"
	inErrors "github.com/Alturino/lairai/internal/errors"
	inHttp "github.com/Alturino/lairai/internal/http"
	"github.com/Alturino/lairai/internal/log"
	"github.com/Alturino/lairai/internal/otel"
	"github.com/Alturino/lairai/pkg/response"
)

type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(cfg config.Backend) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   cfg.Timeout,
		},
	}
}

// Do sends body as JSON to path and decodes the envelope data into out.
// out may be nil. A null data field leaves out untouched.
func (cl *Client) Do(
	c context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	out interface{},
) error {
	c, span := otel.Tracer.Start(
		c,
		"backend Client Do",
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "backend Client Do").
		Str(log.KeyRequestMethod, method).
		Str(log.KeyRequestURI, path).
		Logger()

	target := cl.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed marshaling request body with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return &inErrors.APIError{Message: err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(c, method, target, reader)
	if err != nil {
		err = fmt.Errorf("failed creating request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return &inErrors.APIError{Message: err.Error()}
	}
	req.Header.Set(inHttp.KEY_HEADER_CONTENT_TYPE, inHttp.VALUE_HEADER_APPLICATION_JSON)
	if requestID := log.RequestIDFromContext(c); requestID != "" {
		req.Header.Set(inHttp.KEY_HEADER_REQUEST_ID, requestID)
	}

	logger.Debug().Msg("sending request to backend")
	resp, err := cl.http.Do(req)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return &inErrors.APIError{Message: err.Error()}
	}
	defer resp.Body.Close()
	logger = logger.With().Int(log.KeyResponseStatusCode, resp.StatusCode).Logger()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	envelope := response.Envelope{}
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = &inErrors.APIError{StatusCode: resp.StatusCode, Message: envelope.Message}
		if envelope.Message == "" {
			err = &inErrors.APIError{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("Request failed with status code %d", resp.StatusCode),
			}
		}
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if decodeErr != nil && decodeErr != io.EOF {
		err = fmt.Errorf("failed decoding response body with error=%w", decodeErr)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return &inErrors.APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	logger.Debug().Msg("received response from backend")

	if out == nil || len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err = json.Unmarshal(envelope.Data, out); err != nil {
		err = fmt.Errorf("failed decoding response data with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return &inErrors.APIError{StatusCode: resp.StatusCode, Message: err.Error()}
	}
	return nil
}
