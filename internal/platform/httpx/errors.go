package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for domain and remote-store failures.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")

	// ErrRemoteRejected wraps a 4xx answer from the budget store; its message
	// carries the store's own explanation when the body provided one.
	ErrRemoteRejected = errors.New("remote store rejected the request")
	// ErrRemoteUnavailable covers transport failures, timeouts and 5xx answers.
	ErrRemoteUnavailable = errors.New("remote store unavailable")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrRemoteRejected):
		Problem(w, http.StatusUnprocessableEntity, "Rejected", err.Error())
	case errors.Is(err, ErrRemoteUnavailable):
		Problem(w, http.StatusBadGateway, "Upstream Unavailable", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
