// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"bytes"
	"context"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// envelope is the top-level JSON wrapper type used for API responses,
// e.g. {"error": "..."} or {"status": "available", ...}.
type envelope map[string]any

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// writeHTML renders a fragment into a buffer first, so a template error can
// still become a clean 500 instead of a half-written page.
func (app *applicationDependencies) writeHTML(w http.ResponseWriter, status int, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
	return nil
}

// writeText sends s as a plain-text 200 response.
func (app *applicationDependencies) writeText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, s)
}

// storeContext bounds a single book store access by the configured timeout.
func (app *applicationDependencies) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), app.config.Store.Timeout)
}

// notFoundStatus is the status used for not-found HTML fragments.
func (app *applicationDependencies) notFoundStatus() int {
	if app.config.LegacyNotFound {
		return http.StatusOK
	}
	return http.StatusNotFound
}
