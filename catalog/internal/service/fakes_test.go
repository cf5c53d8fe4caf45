package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

// memDirectory is an in-memory DirectoryRepo honoring the same conditional
// semantics as the real adapter: duplicate ids conflict, zero-row updates
// and deletes signal not-found, decrements guard against underflow.
type memDirectory[T record] struct {
	mu        sync.Mutex
	recs      map[string]T
	bump      func(T, int) (T, error)
	lastPatch map[string]any
}

func newMemDirectory[T record](bump func(T, int) (T, error)) *memDirectory[T] {
	return &memDirectory[T]{
		recs: make(map[string]T),
		bump: bump,
	}
}

func (m *memDirectory[T]) Insert(_ context.Context, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if _, ok := m.recs[rec.RecordID()]; ok {
		return zero, errs.ErrAlreadyExists
	}
	m.recs[rec.RecordID()] = rec
	return rec, nil
}

func (m *memDirectory[T]) Get(_ context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	return rec, nil
}

func (m *memDirectory[T]) ByName(_ context.Context, name string, limit int, _ string) ([]T, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for _, id := range m.sortedIDs() {
		if m.recs[id].RecordName() == name {
			out = append(out, m.recs[id])
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, "", nil
}

func (m *memDirectory[T]) List(_ context.Context, _ int, _ string) ([]T, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []T
	for _, id := range m.sortedIDs() {
		out = append(out, m.recs[id])
	}
	return out, "", nil
}

func (m *memDirectory[T]) Update(_ context.Context, id string, patch map[string]any) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		var zero T
		return zero, errs.ErrNotFound
	}
	m.lastPatch = patch
	return rec, nil
}

func (m *memDirectory[T]) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

func (m *memDirectory[T]) IncrementBooks(_ context.Context, id string) error {
	return m.adjust(id, 1)
}

func (m *memDirectory[T]) DecrementBooks(_ context.Context, id string) error {
	return m.adjust(id, -1)
}

func (m *memDirectory[T]) adjust(id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[id]
	if !ok {
		return errs.ErrNotFound
	}
	updated, err := m.bump(rec, delta)
	if err != nil {
		return err
	}
	m.recs[id] = updated
	return nil
}

func (m *memDirectory[T]) sortedIDs() []string {
	ids := make([]string, 0, len(m.recs))
	for id := range m.recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func bumpAuthor(a model.Author, delta int) (model.Author, error) {
	if a.BooksCount+delta < 0 {
		return a, errs.ErrCounterUnderflow
	}
	a.BooksCount += delta
	return a, nil
}

func bumpCategory(c model.Category, delta int) (model.Category, error) {
	if c.BooksCount+delta < 0 {
		return c, errs.ErrCounterUnderflow
	}
	c.BooksCount += delta
	return c, nil
}

// memBooks is an in-memory BookRepository. Author names for search
// candidates come from the authors map.
type memBooks struct {
	mu      sync.Mutex
	recs    map[string]model.Book
	authors map[string]string
}

func newMemBooks() *memBooks {
	return &memBooks{
		recs:    make(map[string]model.Book),
		authors: make(map[string]string),
	}
}

func (m *memBooks) sortedIDs() []string {
	ids := make([]string, 0, len(m.recs))
	for id := range m.recs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m *memBooks) Insert(_ context.Context, book model.Book) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[book.ID]; ok {
		return model.Book{}, errs.ErrAlreadyExists
	}
	for _, b := range m.recs {
		if b.ISBN == book.ISBN {
			return model.Book{}, errs.ErrAlreadyExists
		}
	}
	m.recs[book.ID] = book
	return book, nil
}

func (m *memBooks) Get(_ context.Context, id string) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.recs[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return book, nil
}

func (m *memBooks) filter(pred func(model.Book) bool) []model.Book {
	var out []model.Book
	for _, id := range m.sortedIDs() {
		if pred(m.recs[id]) {
			out = append(out, m.recs[id])
		}
	}
	return out
}

func (m *memBooks) List(_ context.Context, _ int, _ string) ([]model.Book, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(model.Book) bool { return true }), "", nil
}

func (m *memBooks) ByAuthor(_ context.Context, authorID string, _ int, _ string) ([]model.Book, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool { return b.AuthorID == authorID }), "", nil
}

func (m *memBooks) ByCategory(_ context.Context, categoryID string, _ int, _ string) ([]model.Book, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool { return b.CategoryID == categoryID }), "", nil
}

func (m *memBooks) ByTitle(_ context.Context, title string, _ int, _ string) ([]model.Book, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool {
		return strings.EqualFold(b.Title, title)
	}), "", nil
}

func (m *memBooks) ByRating(_ context.Context, rating int, _ int, _ string) ([]model.Book, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool {
		return b.Rating != nil && *b.Rating == rating
	}), "", nil
}

func (m *memBooks) ByISBN(_ context.Context, isbn string) ([]model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool { return b.ISBN == isbn }), nil
}

func (m *memBooks) BorrowedBy(_ context.Context, borrowerID string) ([]model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.filter(func(b model.Book) bool {
		return b.BorrowerID != nil && *b.BorrowerID == borrowerID && b.Status == model.StatusBorrowed
	}), nil
}

func (m *memBooks) SearchCandidates(_ context.Context, tokens []string) ([]model.SearchHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits []model.SearchHit
	for _, id := range m.sortedIDs() {
		b := m.recs[id]
		authorName := m.authors[b.AuthorID]
		title := strings.ToLower(b.Title)
		author := strings.ToLower(authorName)
		for _, tok := range tokens {
			if strings.Contains(title, tok) || strings.Contains(author, tok) {
				hits = append(hits, model.SearchHit{Book: b, AuthorName: authorName})
				break
			}
		}
	}
	return hits, nil
}

func (m *memBooks) Update(_ context.Context, id string, patch map[string]any) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.recs[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	for k, v := range patch {
		switch k {
		case "title":
			book.Title = v.(string)
		case "quantity":
			book.Quantity = v.(int)
		case "cover_url":
			book.CoverURL = v.(string)
		case "pdf_url":
			book.PdfURL = v.(string)
		case "updated_at":
			book.UpdatedAt = v.(time.Time)
		}
	}
	m.recs[id] = book
	return book, nil
}

func (m *memBooks) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.recs, id)
	return nil
}

func (m *memBooks) Borrow(_ context.Context, id, borrowerID string, startDate, returnDate time.Time) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.recs[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	book.Quantity--
	book.Status = model.StatusBorrowed
	book.BorrowerID = &borrowerID
	book.StartDate = &startDate
	book.ReturnDate = &returnDate
	book.UpdatedAt = time.Now().UTC()
	m.recs[id] = book
	return book, nil
}

func (m *memBooks) Return(_ context.Context, id string) (model.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	book, ok := m.recs[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	book.Quantity++
	book.Status = model.StatusAvailable
	book.BorrowerID = nil
	book.StartDate = nil
	book.ReturnDate = nil
	book.UpdatedAt = time.Now().UTC()
	m.recs[id] = book
	return book, nil
}

// memBlobs records uploads and deletes.
type memBlobs struct {
	mu       sync.Mutex
	n        int
	uploaded []string
	deleted  []string
	failNext bool
}

func (m *memBlobs) Upload(_ context.Context, _ []byte, _, folder string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return "", errs.ErrStorageIO
	}
	m.n++
	ref := fmt.Sprintf("http://blobs/%s/%d", folder, m.n)
	m.uploaded = append(m.uploaded, ref)
	return ref, nil
}

func (m *memBlobs) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, ref)
	return nil
}
