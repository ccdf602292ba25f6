// cmd/api/demo.go
// This file contains the fixed demonstration endpoints. None of them touch
// the book store.
package main

import (
	_ "embed"
	"net/http"
	"strings"

	"github.com/aoideee/bookdemo/internal/router"
)

//go:embed static/hello.html
var helloHTML []byte

// helloHandler handles GET /.
func (app *applicationDependencies) helloHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, "Hello, World!")
}

// demoHTMLHandler handles GET /demo.html.
func (app *applicationDependencies) demoHTMLHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<h1>Hello!</h1>"))
}

// helloHTMLHandler handles GET /hello.html with the embedded page.
func (app *applicationDependencies) helloHTMLHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(helloHTML)
}

// demoStatusHandler handles GET /demo-status.
func (app *applicationDependencies) demoStatusHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, "Everything is OK")
}

// demoURIHandler handles GET /demo-uri and echoes the request URI.
func (app *applicationDependencies) demoURIHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, "The URI is: "+r.URL.RequestURI())
}

// demoJSONHandler handles GET /demo.json.
func (app *applicationDependencies) demoJSONHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, map[string]string{"a": "b"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// echoJSONHandler handles PUT /demo.json and sends the decoded body back.
func (app *applicationDependencies) echoJSONHandler(w http.ResponseWriter, r *http.Request) {
	body, _ := router.Body[*any](r)
	var value any
	if body != nil {
		value = *body
	}
	err := app.writeJSON(w, http.StatusOK, value, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// fooHandler answers every method registered on /foo with "<method> foo".
func (app *applicationDependencies) fooHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, strings.ToLower(r.Method)+" foo")
}

// healthcheckHandler handles GET /healthcheck.
func (app *applicationDependencies) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	count, err := app.models.Books.Len(ctx)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status": "available",
		"system_info": map[string]any{
			"environment": app.config.Environment,
			"version":     appVersion,
			"books":       count,
		},
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
