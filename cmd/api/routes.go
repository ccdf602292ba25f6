// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/aoideee/bookdemo/internal/data"
	"github.com/aoideee/bookdemo/internal/router"
)

// routes builds the route table and wraps it in the middleware chain.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → logRequest → rateLimit → router
//
// Current endpoints:
//
//	GET    /                   – plain-text greeting
//	GET    /demo.html          – inline HTML
//	GET    /hello.html         – embedded HTML file
//	GET    /demo-status        – fixed status message
//	GET    /demo-uri           – echo the request URI
//	GET    /demo.json          – fixed JSON object
//	PUT    /demo.json          – echo the JSON body
//	*      /foo                – echo the method
//	GET    /items/{id}         – echo a numeric path id
//	GET    /items              – echo the query string
//	GET    /books              – list every book, sorted by title
//	PUT    /books              – insert or replace a book from JSON
//	GET    /book/{id}          – show one book
//	GET    /books/{id}/form    – edit form for one book
//	POST   /books/{id}/form    – insert or replace a book from the form
//	GET    /healthcheck        – status and store size
func (app *applicationDependencies) routes() (http.Handler, error) {
	id := map[string]router.Kind{"id": router.Uint32}

	table := []router.Route{
		{Method: http.MethodGet, Pattern: "/", Handler: app.helloHandler},
		{Method: http.MethodGet, Pattern: "/demo.html", Handler: app.demoHTMLHandler},
		{Method: http.MethodGet, Pattern: "/hello.html", Handler: app.helloHTMLHandler},
		{Method: http.MethodGet, Pattern: "/demo-status", Handler: app.demoStatusHandler},
		{Method: http.MethodGet, Pattern: "/demo-uri", Handler: app.demoURIHandler},
		{Method: http.MethodGet, Pattern: "/demo.json", Handler: app.demoJSONHandler},
		{Method: http.MethodPut, Pattern: "/demo.json", Handler: app.echoJSONHandler, Body: func() any { return new(any) }},

		{Method: http.MethodGet, Pattern: "/items/{id}", Params: id, Handler: app.showItemHandler},
		{Method: http.MethodGet, Pattern: "/items", Handler: app.listItemsHandler},

		{Method: http.MethodGet, Pattern: "/books", Handler: app.listBooksHandler},
		{Method: http.MethodPut, Pattern: "/books", Handler: app.upsertBookHandler, Body: func() any { return new(data.BookInput) }},
		{Method: http.MethodGet, Pattern: "/book/{id}", Params: id, Handler: app.showBookHandler},
		{Method: http.MethodGet, Pattern: "/books/{id}/form", Params: id, Handler: app.editBookFormHandler},
		{Method: http.MethodPost, Pattern: "/books/{id}/form", Params: id, Handler: app.submitBookFormHandler},

		{Method: http.MethodGet, Pattern: "/healthcheck", Handler: app.healthcheckHandler},
	}
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete} {
		table = append(table, router.Route{Method: method, Pattern: "/foo", Handler: app.fooHandler})
	}

	rt, err := router.New(router.Config{
		NotFound:   app.notFoundResponse,
		BadRequest: app.badRequestResponse,
	}, table...)
	if err != nil {
		return nil, err
	}

	// recoverPanic is outermost so it catches panics from every layer below.
	return app.recoverPanic(app.logRequest(app.rateLimit(rt))), nil
}
