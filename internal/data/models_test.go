package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookdemo/internal/blocking"
	"github.com/aoideee/bookdemo/internal/validator"
)

func seededStore() *BookStore {
	return NewBookStore(
		Book{ID: 1, Title: "Antigone", Author: "Sophocles"},
		Book{ID: 2, Title: "Dune", Author: "Herbert"},
	)
}

func TestBookString(t *testing.T) {
	b := Book{ID: 7, Title: "Candide", Author: "Voltaire"}
	assert.Equal(t, "Candide by Voltaire", b.String())
}

func TestUpsertThenGet(t *testing.T) {
	ctx := context.Background()
	s := seededStore()

	want := Book{ID: 3, Title: "Decameron", Author: "Boccaccio"}
	prev, err := s.Upsert(ctx, want)
	require.NoError(t, err)
	assert.Nil(t, prev)

	got, err := s.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetMissing(t *testing.T) {
	_, err := seededStore().Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpsertReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s := seededStore()

	prev, err := s.Upsert(ctx, Book{ID: 2, Title: "Emma", Author: "Austen"})
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, Book{ID: 2, Title: "Dune", Author: "Herbert"}, *prev)

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, Book{ID: 2, Title: "Emma", Author: "Austen"}, got)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListSortedByTitleThenID(t *testing.T) {
	ctx := context.Background()
	s := NewBookStore()

	for _, b := range []Book{
		{ID: 9, Title: "Ulysses", Author: "Joyce"},
		{ID: 4, Title: "Beloved", Author: "Morrison"},
		{ID: 8, Title: "Antigone", Author: "Anouilh"},
		{ID: 1, Title: "Antigone", Author: "Sophocles"},
	} {
		_, err := s.Upsert(ctx, b)
		require.NoError(t, err)
	}

	got, err := s.List(ctx)
	require.NoError(t, err)

	want := []Book{
		{ID: 1, Title: "Antigone", Author: "Sophocles"},
		{ID: 8, Title: "Antigone", Author: "Anouilh"},
		{ID: 4, Title: "Beloved", Author: "Morrison"},
		{ID: 9, Title: "Ulysses", Author: "Joyce"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestListEmpty(t *testing.T) {
	got, err := NewBookStore().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestConcurrentUpsertsAreNotLost(t *testing.T) {
	ctx := context.Background()
	s := NewBookStore()

	const n = 200
	var wg sync.WaitGroup
	for i := 1; i <= n; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			_, err := s.Upsert(ctx, Book{ID: id, Title: fmt.Sprintf("Title %03d", id), Author: "Anon"})
			assert.NoError(t, err)
			_, err = s.List(ctx)
			assert.NoError(t, err)
		}(uint32(i))
	}
	wg.Wait()

	count, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)

	for i := uint32(1); i <= n; i++ {
		b, err := s.Get(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Title %03d", i), b.Title)
	}
}

func TestPanicInsideCriticalSectionLeavesStoreUsable(t *testing.T) {
	ctx := context.Background()
	s := seededStore()

	_, err := withLock(ctx, s, func(map[uint32]Book) (int, error) {
		panic("corrupted")
	})
	var perr *blocking.PanicError
	require.ErrorAs(t, err, &perr)

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Antigone", got.Title)
}

func TestAccessTimesOutWhileLockHeld(t *testing.T) {
	s := seededStore()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_, _ = withLock(context.Background(), s, func(map[uint32]Book) (int, error) {
			close(held)
			<-release
			return 0, nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.Get(ctx, 1)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

	close(release)

	got, err := s.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}

func TestNewModelsSeedsStore(t *testing.T) {
	m := NewModels([]Book{{ID: 5, Title: "Emma", Author: "Austen"}})
	got, err := m.Books.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Emma by Austen", got.String())
}

func TestBookInputCheck(t *testing.T) {
	in := &BookInput{}
	v := validator.New()
	in.Check(v)
	assert.Len(t, v.Errors, 3)

	id, title, author := uint32(3), "Decameron", "Boccaccio"
	in = &BookInput{ID: &id, Title: &title, Author: &author}
	v = validator.New()
	in.Check(v)
	assert.True(t, v.Valid())
	assert.Equal(t, Book{ID: 3, Title: "Decameron", Author: "Boccaccio"}, in.Book())
}
