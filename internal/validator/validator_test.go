package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorKeepsFirstError(t *testing.T) {
	v := New()
	assert.True(t, v.Valid())
	assert.NoError(t, v.Err())

	v.Check(false, "title", "must be provided")
	v.Check(false, "title", "must not be empty")
	v.Check(true, "author", "must be provided")

	assert.False(t, v.Valid())
	assert.Equal(t, map[string]string{"title": "must be provided"}, v.Errors)
}

func TestRequired(t *testing.T) {
	title := "Dune"
	var author *string

	v := New()
	Required(v, "title", &title)
	Required(v, "author", author)

	assert.Equal(t, map[string]string{"author": "must be provided"}, v.Errors)
}

func TestErrListsFieldsInOrder(t *testing.T) {
	v := New()
	v.AddError("port", "out of range")
	v.AddError("environment", "unknown")

	assert.EqualError(t, v.Err(), "environment unknown; port out of range")
}

func TestHelpers(t *testing.T) {
	assert.True(t, WriteMethod("PUT"))
	assert.True(t, WriteMethod("PATCH"))
	assert.False(t, WriteMethod("GET"))

	assert.True(t, ParamName("id"))
	assert.True(t, ParamName("book_id2"))
	assert.False(t, ParamName("2id"))
	assert.False(t, ParamName(""))

	assert.True(t, OneOf("staging", "development", "staging"))
	assert.False(t, OneOf("qa", "development", "staging"))

	_, dup := FirstDuplicate([]string{"GET /a", "PUT /a"})
	assert.False(t, dup)
	key, dup := FirstDuplicate([]string{"GET /a", "GET /b", "GET /a"})
	assert.True(t, dup)
	assert.Equal(t, "GET /a", key)
}
