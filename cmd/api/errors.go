// cmd/api/errors.go
// This file contains all error-response helpers for the application.
// Keeping error helpers in a dedicated file makes them easy to find and extend.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// logError logs an internal error at ERROR level with the request method and URL for context.
func (app *applicationDependencies) logError(r *http.Request, err error) {
	app.logger.Error(err.Error(),
		slog.String("request_method", r.Method),
		slog.String("request_url", r.URL.String()),
		slog.String("request_id", requestID(r)),
	)
}

// errorResponse sends a JSON error envelope with the given status code and message.
// It is the low-level building block used by all the specific error helpers below.
func (app *applicationDependencies) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	data := envelope{"error": message}
	err := app.writeJSON(w, status, data, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse logs a 500-level error and sends a generic message to the client.
// We never expose internal error details to the client.
func (app *applicationDependencies) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

// storeErrorResponse maps a failed book store access to a response. A
// deadline means the store lock stayed busy; a cancellation means the client
// went away and nobody is left to answer; anything else is internal.
func (app *applicationDependencies) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		app.logger.Info("client closed request",
			slog.String("request_method", r.Method),
			slog.String("request_url", r.URL.String()),
			slog.String("request_id", requestID(r)),
		)
	case errors.Is(err, context.DeadlineExceeded):
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusServiceUnavailable, "the book store did not respond in time, please retry")
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// notFoundResponse sends a 404 Not Found error.
func (app *applicationDependencies) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

// badRequestResponse sends a 400 Bad Request error. message is either a
// plain string or a map of field errors.
func (app *applicationDependencies) badRequestResponse(w http.ResponseWriter, r *http.Request, message any) {
	app.errorResponse(w, r, http.StatusBadRequest, message)
}

// rateLimitExceededResponse sends a 429 Too Many Requests error.
func (app *applicationDependencies) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}
