// cmd/api/handlers.go
// This file contains the HTTP request handlers for the books and items
// resources. Each handler is a method on *applicationDependencies so it has
// access to the logger, config and book store.
package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/aoideee/bookdemo/internal/data"
	"github.com/aoideee/bookdemo/internal/render"
	"github.com/aoideee/bookdemo/internal/router"
	"github.com/aoideee/bookdemo/internal/validator"
)

// showItemHandler handles GET /items/{id} and echoes the numeric id.
func (app *applicationDependencies) showItemHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, render.ItemID(router.Uint32Param(r, "id")))
}

// listItemsHandler handles GET /items and echoes the query mapping.
func (app *applicationDependencies) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	app.writeText(w, render.ItemQuery(router.Query(r)))
}

// listBooksHandler handles GET /books.
// It renders one paragraph per book, sorted by title.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	books, err := app.models.Books.List(ctx)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeHTML(w, http.StatusOK, func(out io.Writer) error {
		return render.BookList(out, books)
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /book/{id}.
// A missing id renders the not-found fragment instead of an error envelope.
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id := router.Uint32Param(r, "id")

	ctx, cancel := app.storeContext(r)
	defer cancel()

	book, err := app.models.Books.Get(ctx, id)
	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		err = app.writeHTML(w, app.notFoundStatus(), func(out io.Writer) error {
			return render.NotFound(out, id)
		})
	case err != nil:
		app.storeErrorResponse(w, r, err)
		return
	default:
		err = app.writeHTML(w, http.StatusOK, func(out io.Writer) error {
			return render.Book(out, book)
		})
	}
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// upsertBookHandler handles PUT /books.
// The router has already decoded and shape-checked the JSON body, so the
// handler only stores the record and confirms it.
func (app *applicationDependencies) upsertBookHandler(w http.ResponseWriter, r *http.Request) {
	input, ok := router.Body[*data.BookInput](r)
	if !ok {
		app.serverErrorResponse(w, r, errors.New("upsert book: request body missing from context"))
		return
	}
	app.storeBook(w, r, "Put", input.Book())
}

// editBookFormHandler handles GET /books/{id}/form.
func (app *applicationDependencies) editBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id := router.Uint32Param(r, "id")

	ctx, cancel := app.storeContext(r)
	defer cancel()

	book, err := app.models.Books.Get(ctx, id)
	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		err = app.writeHTML(w, app.notFoundStatus(), func(out io.Writer) error {
			return render.NotFound(out, id)
		})
	case err != nil:
		app.storeErrorResponse(w, r, err)
		return
	default:
		err = app.writeHTML(w, http.StatusOK, func(out io.Writer) error {
			return render.BookForm(out, book)
		})
	}
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// submitBookFormHandler handles POST /books/{id}/form, the target of the
// edit form. The path id is authoritative; a hidden id field, if sent, must
// agree with it.
func (app *applicationDependencies) submitBookFormHandler(w http.ResponseWriter, r *http.Request) {
	id := router.Uint32Param(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	if err := r.ParseForm(); err != nil {
		app.badRequestResponse(w, r, err.Error())
		return
	}

	v := validator.New()
	if raw := r.PostForm.Get("id"); raw != "" {
		formID, err := strconv.ParseUint(raw, 10, 32)
		v.Check(err == nil && uint32(formID) == id, "id", "must match the id in the path")
	}
	v.Check(r.PostForm.Has("title"), "title", "must be provided")
	v.Check(r.PostForm.Has("author"), "author", "must be provided")
	if !v.Valid() {
		app.badRequestResponse(w, r, v.Errors)
		return
	}

	app.storeBook(w, r, "Post", data.Book{
		ID:     id,
		Title:  r.PostForm.Get("title"),
		Author: r.PostForm.Get("author"),
	})
}

// storeBook upserts book and renders the confirmation fragment.
func (app *applicationDependencies) storeBook(w http.ResponseWriter, r *http.Request, verb string, book data.Book) {
	ctx, cancel := app.storeContext(r)
	defer cancel()

	prev, err := app.models.Books.Upsert(ctx, book)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}
	if prev != nil {
		app.logger.Debug("book replaced", "id", book.ID, "previous", prev.String())
	}

	err = app.writeHTML(w, http.StatusOK, func(out io.Writer) error {
		return render.Upserted(out, verb, book)
	})
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
