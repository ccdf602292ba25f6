// Package data provides the book record type and the in-memory store
// that every request handler shares.
package data

import (
	"fmt"

	"github.com/aoideee/bookdemo/internal/validator"
)

// Book represents a single book record held by the BookStore.
// Two books are equal when all three fields are equal.
type Book struct {
	ID     uint32 `json:"id"     yaml:"id"`     // Unique key within the store
	Title  string `json:"title"  yaml:"title"`  // Title of the book, also the listing sort key
	Author string `json:"author" yaml:"author"` // Author's display name
}

// String renders the book as "<title> by <author>".
func (b Book) String() string {
	return fmt.Sprintf("%s by %s", b.Title, b.Author)
}

// BookInput holds the fields a client must supply when upserting a book.
// Every field is a pointer so we can tell a missing key apart from a zero value.
type BookInput struct {
	ID     *uint32 `json:"id"`
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

// Check records an error for every field missing from the decoded body.
func (in *BookInput) Check(v *validator.Validator) {
	validator.Required(v, "id", in.ID)
	validator.Required(v, "title", in.Title)
	validator.Required(v, "author", in.Author)
}

// Book converts a checked input into a Book. Call Check first.
func (in *BookInput) Book() Book {
	return Book{ID: *in.ID, Title: *in.Title, Author: *in.Author}
}
