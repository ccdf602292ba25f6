// internal/data/models.go
package data

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/semaphore"

	"github.com/aoideee/bookdemo/internal/blocking"
)

// Models is a top-level container that groups all model types together.
// It is passed around the application via applicationDependencies so every
// handler reaches the same store without any package-level state.
type Models struct {
	Books *BookStore // Shared, lock-protected collection of books
}

// NewModels constructs a Models value whose store is pre-seeded with seed.
// Call this once during application startup and store the result in applicationDependencies.
func NewModels(seed []Book) Models {
	return Models{
		Books: NewBookStore(seed...),
	}
}

// ErrRecordNotFound is returned when no book has the requested id.
var ErrRecordNotFound = errors.New("record not found")

// BookStore is an in-memory collection of books keyed by id.
//
// Every read and write goes through a single exclusion lock. The lock is a
// weighted semaphore of size one so waiting for it respects the caller's
// context, and each access runs through blocking.Do so a fault inside the
// critical section is returned as an error.
type BookStore struct {
	lock  *semaphore.Weighted
	books map[uint32]Book
}

// NewBookStore returns a store holding the given books. Later entries win
// when ids repeat.
func NewBookStore(seed ...Book) *BookStore {
	s := &BookStore{
		lock:  semaphore.NewWeighted(1),
		books: make(map[uint32]Book, len(seed)),
	}
	for _, b := range seed {
		s.books[b.ID] = b
	}
	return s
}

// withLock runs fn with exclusive access to the underlying map.
func withLock[T any](ctx context.Context, s *BookStore, fn func(books map[uint32]Book) (T, error)) (T, error) {
	return blocking.Do(ctx, func(ctx context.Context) (T, error) {
		if err := s.lock.Acquire(ctx, 1); err != nil {
			var zero T
			return zero, fmt.Errorf("acquire book store lock: %w", err)
		}
		defer s.lock.Release(1)
		return fn(s.books)
	})
}

// Get retrieves a single book by id.
// Returns ErrRecordNotFound if no book with the given id exists.
func (s *BookStore) Get(ctx context.Context, id uint32) (Book, error) {
	return withLock(ctx, s, func(books map[uint32]Book) (Book, error) {
		book, ok := books[id]
		if !ok {
			return Book{}, ErrRecordNotFound
		}
		return book, nil
	})
}

// List returns every book sorted by title, then by id for equal titles.
// The order is computed on each call; the store itself is unordered.
func (s *BookStore) List(ctx context.Context) ([]Book, error) {
	books, err := withLock(ctx, s, func(books map[uint32]Book) ([]Book, error) {
		out := make([]Book, 0, len(books))
		for _, b := range books {
			out = append(out, b)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	// Sorting happens on the copy, outside the critical section.
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
	return books, nil
}

// Upsert inserts book, or replaces the whole record if its id is already
// present. It returns the replaced book, or nil on insert.
func (s *BookStore) Upsert(ctx context.Context, book Book) (*Book, error) {
	return withLock(ctx, s, func(books map[uint32]Book) (*Book, error) {
		prev, ok := books[book.ID]
		books[book.ID] = book
		if !ok {
			return nil, nil
		}
		return &prev, nil
	})
}

// Len reports how many books the store holds.
func (s *BookStore) Len(ctx context.Context) (int, error) {
	return withLock(ctx, s, func(books map[uint32]Book) (int, error) {
		return len(books), nil
	})
}
