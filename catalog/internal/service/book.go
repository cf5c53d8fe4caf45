package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/events"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
	"github.com/bookgrove/catalog-service/catalog/internal/repository"
)

const (
	coversFolder = "covers"
	pdfsFolder   = "pdfs"
)

// counter is the slice of the author/category managers the book manager
// fans counter updates out to.
type counter interface {
	IncrementBooks(ctx context.Context, id string) error
	DecrementBooks(ctx context.Context, id string) error
}

type BookService struct {
	repo       repository.BookRepository
	blobs      BlobStore
	authors    counter
	categories counter
	events     *events.Publisher
	log        *zap.Logger
}

func NewBookService(
	repo repository.BookRepository,
	blobs BlobStore,
	authors, categories counter,
	publisher *events.Publisher,
	log *zap.Logger,
) *BookService {
	return &BookService{
		repo:       repo,
		blobs:      blobs,
		authors:    authors,
		categories: categories,
		events:     publisher,
		log:        log.Named("book"),
	}
}

// Create uploads both attachments, inserts the record, then bumps the
// category and author counters. The counter fan-out is best-effort and not
// transactional: a failure after the insert leaves counters undercounting
// and is logged for operational remediation, never rolled back.
func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest, cover, pdf model.Attachment) (model.Book, error) {
	same, err := s.repo.ByISBN(ctx, req.ISBN)
	if err != nil {
		return model.Book{}, errors.Wrap(err, "create book")
	}
	if len(same) > 0 {
		return model.Book{}, errors.Wrapf(errs.ErrAlreadyExists, "isbn %q", req.ISBN)
	}

	coverURL, err := s.blobs.Upload(ctx, cover.Data, cover.ContentType, coversFolder)
	if err != nil {
		return model.Book{}, err
	}
	pdfURL, err := s.blobs.Upload(ctx, pdf.Data, pdf.ContentType, pdfsFolder)
	if err != nil {
		return model.Book{}, err
	}

	now := time.Now().UTC()
	book := model.Book{
		ID:            uuid.NewString(),
		Title:         req.Title,
		AuthorID:      req.AuthorID,
		CategoryID:    req.CategoryID,
		ISBN:          req.ISBN,
		Status:        model.StatusAvailable,
		Description:   req.Description,
		PublishedYear: req.PublishedYear,
		Quantity:      req.Quantity,
		CoverURL:      coverURL,
		PdfURL:        pdfURL,
		Rating:        req.Rating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	book, err = s.repo.Insert(ctx, book)
	if err != nil {
		return model.Book{}, err
	}

	if err := s.categories.IncrementBooks(ctx, book.CategoryID); err != nil {
		s.log.Error("increment category counter",
			zap.String("bookId", book.ID),
			zap.String("categoryId", book.CategoryID),
			zap.Error(err))
	}
	if err := s.authors.IncrementBooks(ctx, book.AuthorID); err != nil {
		s.log.Error("increment author counter",
			zap.String("bookId", book.ID),
			zap.String("authorId", book.AuthorID),
			zap.Error(err))
	}

	s.events.Publish(events.BookCreated, book.ID, "")
	return book, nil
}

func (s *BookService) FindOne(ctx context.Context, id string) (model.Book, error) {
	book, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}
	book.Project()
	return book, nil
}

func (s *BookService) FindAll(ctx context.Context, limit int, cursor string) (model.BookList, error) {
	return s.page(s.repo.List(ctx, limit, cursor))
}

func (s *BookService) FindByCategory(ctx context.Context, categoryID string, limit int, cursor string) (model.BookList, error) {
	return s.page(s.repo.ByCategory(ctx, categoryID, limit, cursor))
}

func (s *BookService) FindByAuthor(ctx context.Context, authorID string, limit int, cursor string) (model.BookList, error) {
	return s.page(s.repo.ByAuthor(ctx, authorID, limit, cursor))
}

func (s *BookService) FindByTitle(ctx context.Context, title string, limit int, cursor string) (model.BookList, error) {
	return s.page(s.repo.ByTitle(ctx, title, limit, cursor))
}

func (s *BookService) FindByRating(ctx context.Context, rating int, limit int, cursor string) (model.BookList, error) {
	return s.page(s.repo.ByRating(ctx, rating, limit, cursor))
}

func (s *BookService) page(items []model.Book, next string, err error) (model.BookList, error) {
	if err != nil {
		return model.BookList{}, err
	}
	for i := range items {
		items[i].Project()
	}
	return model.BookList{Items: items, NextCursor: next}, nil
}

// Search tokenizes the query, fetches candidates matching any token on
// title or author name, and ranks them by matched-token count. Ties keep
// encounter order.
func (s *BookService) Search(ctx context.Context, query string) ([]model.SearchHit, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil, nil
	}

	hits, err := s.repo.SearchCandidates(ctx, tokens)
	if err != nil {
		return nil, errors.Wrap(err, "search books")
	}
	for i := range hits {
		hits[i].Project()
	}
	RankSearchHits(hits, tokens)
	return hits, nil
}

// RankSearchHits orders hits descending by the number of query tokens found
// in the title or author name; the sort is stable.
func RankSearchHits(hits []model.SearchHit, tokens []string) {
	score := func(h model.SearchHit) int {
		title := strings.ToLower(h.Title)
		author := strings.ToLower(h.AuthorName)
		n := 0
		for _, tok := range tokens {
			if strings.Contains(title, tok) || strings.Contains(author, tok) {
				n++
			}
		}
		return n
	}
	type scored struct {
		hit   model.SearchHit
		score int
	}
	ranked := make([]scored, len(hits))
	for i := range hits {
		ranked[i] = scored{hit: hits[i], score: score(hits[i])}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	for i := range ranked {
		hits[i] = ranked[i].hit
	}
}

// Update patches scalar fields and optionally replaces attachments. Each
// replacement uploads the new asset first and deletes the previous one only
// after the patch landed.
func (s *BookService) Update(ctx context.Context, id string, req model.UpdateBookRequest, cover, pdf *model.Attachment) (model.Book, error) {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return model.Book{}, err
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.AuthorID != nil {
		patch["author_id"] = *req.AuthorID
	}
	if req.CategoryID != nil {
		patch["category_id"] = *req.CategoryID
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.PublishedYear != nil {
		patch["published_year"] = *req.PublishedYear
	}
	if req.Quantity != nil {
		patch["quantity"] = *req.Quantity
	}
	if req.Rating != nil {
		patch["rating"] = *req.Rating
	}

	var stale []string
	if cover != nil {
		url, err := s.blobs.Upload(ctx, cover.Data, cover.ContentType, coversFolder)
		if err != nil {
			return model.Book{}, err
		}
		patch["cover_url"] = url
		if cur.CoverURL != "" {
			stale = append(stale, cur.CoverURL)
		}
	}
	if pdf != nil {
		url, err := s.blobs.Upload(ctx, pdf.Data, pdf.ContentType, pdfsFolder)
		if err != nil {
			return model.Book{}, err
		}
		patch["pdf_url"] = url
		if cur.PdfURL != "" {
			stale = append(stale, cur.PdfURL)
		}
	}
	patch["updated_at"] = time.Now().UTC()

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return model.Book{}, err
	}
	for _, ref := range stale {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.log.Warn("delete replaced attachment", zap.String("ref", ref), zap.Error(err))
		}
	}
	updated.Project()
	return updated, nil
}

// Remove deletes both attachments independently, then the record, then
// decrements the author and category counters best-effort. A failed blob
// delete is logged and does not stop record deletion.
func (s *BookService) Remove(ctx context.Context, id string) error {
	cur, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range []string{cur.CoverURL, cur.PdfURL} {
		if ref == "" {
			continue
		}
		ref := ref
		g.Go(func() error {
			if err := s.blobs.Delete(gctx, ref); err != nil {
				s.log.Warn("delete attachment", zap.String("ref", ref), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.categories.DecrementBooks(ctx, cur.CategoryID); err != nil {
		s.log.Error("decrement category counter",
			zap.String("bookId", id),
			zap.String("categoryId", cur.CategoryID),
			zap.Error(err))
	}
	if err := s.authors.DecrementBooks(ctx, cur.AuthorID); err != nil {
		s.log.Error("decrement author counter",
			zap.String("bookId", id),
			zap.String("authorId", cur.AuthorID),
			zap.Error(err))
	}

	s.events.Publish(events.BookDeleted, id, "")
	return nil
}

func (s *BookService) BorrowedBy(ctx context.Context, userID string) ([]model.Book, error) {
	items, err := s.repo.BorrowedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	// note: no projection here, the set is defined by the persisted
	// BORROWED status
	return items, nil
}
