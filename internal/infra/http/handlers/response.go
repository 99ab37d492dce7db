package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/xavierca1/residence-leads/internal/usecase"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps a use case error to its HTTP status and caller-safe message.
// Anything unrecognised is a 500 with a flat message.
func statusFor(err error) (int, string) {
	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	var de *usecase.DomainError
	if errors.As(err, &de) {
		switch {
		case errors.Is(err, usecase.ErrRateLimitExceeded):
			return http.StatusTooManyRequests, de.Message
		case errors.Is(err, usecase.ErrNotFound):
			return http.StatusNotFound, de.Message
		case errors.Is(err, usecase.ErrInvalidStatus):
			return http.StatusBadRequest, de.Message
		case errors.Is(err, usecase.ErrUnauthorized):
			return http.StatusUnauthorized, de.Message
		}
		return http.StatusBadRequest, de.Message
	}

	return http.StatusInternalServerError, internalErrorMessage
}

// writeUseCaseError writes err to the client and reports 5xx to Sentry. The
// use case has already logged the internal cause.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) int {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		reportError(r, err)
	}
	writeErrorResponse(w, status, msg)
	return status
}

func reportError(r *http.Request, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("path", r.URL.Path)
		scope.SetTag("method", r.Method)
		sentry.CaptureException(err)
	})
}
