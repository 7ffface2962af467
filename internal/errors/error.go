package errors

import (
	"errors"
	"net/http"
)

var (
	ErrSessionNotOpen      = errors.New("no order session is open for this table")
	ErrSessionAlreadyOpen  = errors.New("an order session is already open for this table")
	ErrSubmissionPending   = errors.New("order submission is still pending")
	ErrHydrationFailed     = errors.New("failed loading the active order for this table")
	ErrSessionLoading      = errors.New("order session is still loading")
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderNotPending     = errors.New("order is not pending")
	ErrPaymentNotConfirmed = errors.New("payment was not confirmed")
	ErrInvalidDateRange    = errors.New("start date is after end date")
	ErrInvalidRequest      = errors.New("invalid request")
)

// DefaultAPIMessage is used when neither the backend nor the transport
// produced a message.
const DefaultAPIMessage = "Something went wrong"

// APIError is the single failure shape of the backend collaborator. Every
// failure is recoverable by retrying the user action.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return DefaultAPIMessage
	}
	return e.Message
}

func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsNotFound reports whether err is an APIError for a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
