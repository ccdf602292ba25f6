// Package render formats books and request parameters as the small text and
// HTML fragments served by the API. HTML output goes through html/template,
// so titles and authors are always escaped.
package render

import (
	"fmt"
	"html/template"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/aoideee/bookdemo/internal/data"
)

var fragments = template.Must(template.New("fragments").Parse(`
{{define "book"}}<p>{{.}}</p>
{{end}}
{{define "list"}}{{range .}}{{template "book" .}}{{end}}{{end}}
{{define "notFound"}}<p>Book id {{.}} not found</p>
{{end}}
{{define "form"}}<form method="post" action="/books/{{.ID}}/form">
<input type="hidden" name="id" value="{{.ID}}">
<p><input name="title" value="{{.Title}}"></p>
<p><input name="author" value="{{.Author}}"></p>
<input type="submit" value="Save">
</form>
{{end}}
{{define "upserted"}}<p>{{.Verb}} book: {{.Book}}</p>
{{end}}
`))

// BookList writes one paragraph per book, in the order given.
func BookList(w io.Writer, books []data.Book) error {
	return fragments.ExecuteTemplate(w, "list", books)
}

// Book writes a single book paragraph.
func Book(w io.Writer, book data.Book) error {
	return fragments.ExecuteTemplate(w, "book", book)
}

// NotFound writes the fragment shown for an id with no record.
func NotFound(w io.Writer, id uint32) error {
	return fragments.ExecuteTemplate(w, "notFound", id)
}

// BookForm writes an edit form pre-filled from book.
func BookForm(w io.Writer, book data.Book) error {
	return fragments.ExecuteTemplate(w, "form", book)
}

// Upserted confirms a stored book; verb names the HTTP method that stored it.
func Upserted(w io.Writer, verb string, book data.Book) error {
	return fragments.ExecuteTemplate(w, "upserted", struct {
		Verb string
		Book data.Book
	}{verb, book})
}

// ItemID is the text echoed for a path id.
func ItemID(id uint32) string {
	return fmt.Sprintf("Get items with path id: %d", id)
}

// ItemQuery is the text echoed for a query mapping. Keys are sorted so the
// output is stable.
func ItemQuery(query map[string]string) string {
	var b strings.Builder
	b.WriteString("Get items with query params: {")
	for i, key := range slices.Sorted(maps.Keys(query)) {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", key, query[key])
	}
	b.WriteString("}")
	return b.String()
}
