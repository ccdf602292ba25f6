package router

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodyBytes caps request bodies decoded by the dispatcher.
const maxBodyBytes = 1_048_576

type valuesKey struct{}

// Values holds everything the dispatcher extracted from a request.
type Values struct {
	Path  map[string]any    // Coerced wildcard values keyed by name
	Query map[string]string // Query string, last occurrence wins
	body  any
}

// FromContext returns the values stored by the dispatcher. Requests that
// did not go through a Router get an empty, non-nil Values.
func FromContext(r *http.Request) *Values {
	if v, ok := r.Context().Value(valuesKey{}).(*Values); ok {
		return v
	}
	return &Values{Path: map[string]any{}, Query: map[string]string{}}
}

// Uint32Param returns the named path parameter declared as Uint32.
func Uint32Param(r *http.Request, name string) uint32 {
	n, _ := FromContext(r).Path[name].(uint32)
	return n
}

// StringParam returns the named path parameter declared as String.
func StringParam(r *http.Request, name string) string {
	s, _ := FromContext(r).Path[name].(string)
	return s
}

// Query returns the flattened query string of r.
func Query(r *http.Request) map[string]string {
	return FromContext(r).Query
}

// Body returns the decoded request body as T. ok is false when the route
// declared no body or declared a different type.
func Body[T any](r *http.Request) (T, bool) {
	v, ok := FromContext(r).body.(T)
	return v, ok
}

// readJSON decodes a single JSON value from the request body into dst.
// It enforces a 1 MB size limit, rejects unknown fields, and ensures the
// body contains exactly one JSON value (no trailing data).
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("body must not be empty")
		}
		return fmt.Errorf("body contains badly-formed JSON: %w", err)
	}

	rest, err := io.ReadAll(io.MultiReader(dec.Buffered(), r.Body))
	if err != nil {
		return fmt.Errorf("body could not be read: %w", err)
	}
	if len(bytes.TrimSpace(rest)) != 0 {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}
