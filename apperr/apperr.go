// Package apperr classifies the errors the service returns so the HTTP
// layer can map them to response codes without inspecting messages.
package apperr

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation means the request payload was malformed or incomplete.
	ErrValidation = errors.New("invalid request payload")

	// ErrNotFound means a referenced entity does not exist, or an order
	// does not belong to the business named in the request.
	ErrNotFound = errors.New("not found")

	// ErrPersistence means a storage read or write failed before any
	// partial state was committed.
	ErrPersistence = errors.New("storage failure")

	// ErrTransitionIncomplete means a successful payment attempt was
	// recorded but the order status update did not commit. The order is
	// still pending while a SUCCEEDED payment exists; a reconciliation
	// pass can replay the transition.
	ErrTransitionIncomplete = errors.New("payment recorded but order update failed")
)

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, ErrValidation):
		return "validation_error"

	case errors.Is(err, ErrNotFound):
		return "not_found"

	case errors.Is(err, ErrTransitionIncomplete):
		return "transition_incomplete"

	case errors.Is(err, ErrPersistence):
		return "persistence_error"

	default:
		return "internal"
	}
}

func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, ErrTransitionIncomplete),
		errors.Is(err, ErrPersistence):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}
