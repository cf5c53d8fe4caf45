package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

func seedDirectories(t *testing.T, authors *memDirectory[model.Author], categories *memDirectory[model.Category]) (model.Author, model.Category) {
	t.Helper()
	ctx := context.Background()
	author, err := authors.Insert(ctx, model.Author{ID: "a1", Name: "Alan Donovan"})
	require.NoError(t, err)
	category, err := categories.Insert(ctx, model.Category{ID: "c1", Name: "Programming"})
	require.NoError(t, err)
	return author, category
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	cover := model.Attachment{Data: []byte("img"), ContentType: "image/png", Name: "cover.png"}
	pdf := model.Attachment{Data: []byte("pdf"), ContentType: "application/pdf", Name: "book.pdf"}

	t.Run("ok", func(t *testing.T) {
		svc, _, blobs, authors, categories := newTestBookService(t)
		author, category := seedDirectories(t, authors, categories)

		book, err := svc.Create(ctx, model.CreateBookRequest{
			Title:         "The Go Programming Language",
			AuthorID:      author.ID,
			CategoryID:    category.ID,
			ISBN:          "978-0134190440",
			PublishedYear: 2015,
			Quantity:      3,
		}, cover, pdf)
		require.NoError(t, err)
		require.NotEmpty(t, book.ID)
		require.Equal(t, model.StatusAvailable, book.Status)
		require.NotEmpty(t, book.CoverURL)
		require.NotEmpty(t, book.PdfURL)
		require.NotEqual(t, book.CoverURL, book.PdfURL)
		require.Len(t, blobs.uploaded, 2)

		gotAuthor, err := authors.Get(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, 1, gotAuthor.BooksCount)
		gotCategory, err := categories.Get(ctx, category.ID)
		require.NoError(t, err)
		require.Equal(t, 1, gotCategory.BooksCount)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		svc, _, _, authors, categories := newTestBookService(t)
		author, category := seedDirectories(t, authors, categories)
		req := model.CreateBookRequest{
			Title:      "The Go Programming Language",
			AuthorID:   author.ID,
			CategoryID: category.ID,
			ISBN:       "978-0134190440",
			Quantity:   1,
		}

		_, err := svc.Create(ctx, req, cover, pdf)
		require.NoError(t, err)

		_, err = svc.Create(ctx, req, cover, pdf)
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("missing counter target does not fail the create", func(t *testing.T) {
		svc, _, _, _, _ := newTestBookService(t)

		book, err := svc.Create(ctx, model.CreateBookRequest{
			Title:      "Orphan",
			AuthorID:   "nobody",
			CategoryID: "nothing",
			ISBN:       "isbn-orphan",
			Quantity:   1,
		}, cover, pdf)
		require.NoError(t, err)
		require.NotEmpty(t, book.ID)
	})

	t.Run("upload failure aborts before insert", func(t *testing.T) {
		svc, books, blobs, authors, categories := newTestBookService(t)
		author, category := seedDirectories(t, authors, categories)
		blobs.failNext = true

		_, err := svc.Create(ctx, model.CreateBookRequest{
			Title:      "Never stored",
			AuthorID:   author.ID,
			CategoryID: category.ID,
			ISBN:       "isbn-x",
			Quantity:   1,
		}, cover, pdf)
		require.ErrorIs(t, err, errs.ErrStorageIO)

		all, _, lerr := books.List(ctx, 0, "")
		require.NoError(t, lerr)
		require.Empty(t, all)
	})
}

func TestStatusProjection(t *testing.T) {
	ctx := context.Background()

	t.Run("zero quantity reads unavailable", func(t *testing.T) {
		svc, books, _, _, _ := newTestBookService(t)
		seedBook(t, books, "b1", 0)

		got, err := svc.FindOne(ctx, "b1")
		require.NoError(t, err)
		require.Equal(t, model.StatusUnavailable, got.Status)
	})

	t.Run("borrowed with copies left reads available", func(t *testing.T) {
		svc, books, _, _, _ := newTestBookService(t)
		seedBook(t, books, "b1", 2)

		_, err := svc.Borrow(ctx, "b1", "alice", model.BorrowRequest{StartDate: day(1), ReturnDate: day(10)})
		require.NoError(t, err)

		// the persisted status is BORROWED, but a plain read projects
		// from the remaining quantity
		got, err := svc.FindOne(ctx, "b1")
		require.NoError(t, err)
		require.Equal(t, model.StatusAvailable, got.Status)
		require.Equal(t, 1, got.Quantity)

		list, err := svc.FindAll(ctx, 0, "")
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		require.Equal(t, model.StatusAvailable, list.Items[0].Status)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, books, _, _, _ := newTestBookService(t)

	books.authors["a1"] = "Alan Donovan"
	books.authors["a2"] = "Jon Bodner"
	now := time.Now().UTC()
	for _, b := range []model.Book{
		{ID: "b1", Title: "The Go Programming Language", AuthorID: "a1", ISBN: "1", Quantity: 1},
		{ID: "b2", Title: "Learning Go", AuthorID: "a2", ISBN: "2", Quantity: 1},
		{ID: "b3", Title: "Clean Architecture", AuthorID: "a2", ISBN: "3", Quantity: 1},
	} {
		b.Status = model.StatusAvailable
		b.CreatedAt, b.UpdatedAt = now, now
		_, err := books.Insert(ctx, b)
		require.NoError(t, err)
	}

	t.Run("ranks by matched tokens", func(t *testing.T) {
		hits, err := svc.Search(ctx, "go programming")
		require.NoError(t, err)
		require.Len(t, hits, 2)
		require.Equal(t, "b1", hits[0].ID)
		require.Equal(t, "b2", hits[1].ID)
	})

	t.Run("matches author name", func(t *testing.T) {
		hits, err := svc.Search(ctx, "bodner")
		require.NoError(t, err)
		require.Len(t, hits, 2)
	})

	t.Run("blank query", func(t *testing.T) {
		hits, err := svc.Search(ctx, "   ")
		require.NoError(t, err)
		require.Empty(t, hits)
	})
}

func TestRankSearchHits(t *testing.T) {
	hits := []model.SearchHit{
		{Book: model.Book{ID: "one-token", Title: "Learning Go"}},
		{Book: model.Book{ID: "two-tokens", Title: "The Go Programming Language"}},
		{Book: model.Book{ID: "also-one", Title: "Programming Pearls"}},
	}
	RankSearchHits(hits, []string{"go", "programming"})

	require.Equal(t, "two-tokens", hits[0].ID)
	// ties keep encounter order
	require.Equal(t, "one-token", hits[1].ID)
	require.Equal(t, "also-one", hits[2].ID)
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar patch", func(t *testing.T) {
		svc, books, _, _, _ := newTestBookService(t)
		seedBook(t, books, "b1", 1)

		title := "Renamed"
		quantity := 7
		got, err := svc.Update(ctx, "b1", model.UpdateBookRequest{Title: &title, Quantity: &quantity}, nil, nil)
		require.NoError(t, err)
		require.Equal(t, "Renamed", got.Title)
		require.Equal(t, 7, got.Quantity)
	})

	t.Run("cover replacement deletes the old blob after the patch", func(t *testing.T) {
		svc, books, blobs, _, _ := newTestBookService(t)
		book := seedBook(t, books, "b1", 1)
		book.CoverURL = "http://blobs/covers/old"
		books.recs["b1"] = book

		cover := model.Attachment{Data: []byte("img"), ContentType: "image/png"}
		got, err := svc.Update(ctx, "b1", model.UpdateBookRequest{}, &cover, nil)
		require.NoError(t, err)
		require.NotEqual(t, "http://blobs/covers/old", got.CoverURL)
		require.Equal(t, []string{"http://blobs/covers/old"}, blobs.deleted)
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, _, _, _, _ := newTestBookService(t)

		_, err := svc.Update(ctx, "missing", model.UpdateBookRequest{}, nil, nil)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestRemoveBook(t *testing.T) {
	ctx := context.Background()
	cover := model.Attachment{Data: []byte("img"), ContentType: "image/png"}
	pdf := model.Attachment{Data: []byte("pdf"), ContentType: "application/pdf"}

	t.Run("deletes blobs and decrements counters", func(t *testing.T) {
		svc, _, blobs, authors, categories := newTestBookService(t)
		author, category := seedDirectories(t, authors, categories)

		book, err := svc.Create(ctx, model.CreateBookRequest{
			Title:      "Gone Soon",
			AuthorID:   author.ID,
			CategoryID: category.ID,
			ISBN:       "isbn-gone",
			Quantity:   1,
		}, cover, pdf)
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, book.ID))

		_, err = svc.FindOne(ctx, book.ID)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.ElementsMatch(t, []string{book.CoverURL, book.PdfURL}, blobs.deleted)

		gotAuthor, err := authors.Get(ctx, author.ID)
		require.NoError(t, err)
		require.Equal(t, 0, gotAuthor.BooksCount)
		gotCategory, err := categories.Get(ctx, category.ID)
		require.NoError(t, err)
		require.Equal(t, 0, gotCategory.BooksCount)
	})

	t.Run("counter underflow does not fail the delete", func(t *testing.T) {
		svc, books, _, authors, categories := newTestBookService(t)
		seedDirectories(t, authors, categories)
		now := time.Now().UTC()
		// record referencing counters that are already at zero
		_, err := books.Insert(ctx, model.Book{
			ID: "b1", Title: "t", AuthorID: "a1", CategoryID: "c1",
			ISBN: "i", Status: model.StatusAvailable, Quantity: 1,
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Remove(ctx, "b1"))
	})

	t.Run("unknown book", func(t *testing.T) {
		svc, _, _, _, _ := newTestBookService(t)
		require.ErrorIs(t, svc.Remove(ctx, "missing"), errs.ErrNotFound)
	})
}
