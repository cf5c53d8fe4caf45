package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

type BookRepository interface {
	Insert(ctx context.Context, book model.Book) (model.Book, error)
	Get(ctx context.Context, id string) (model.Book, error)
	List(ctx context.Context, limit int, cursor string) ([]model.Book, string, error)
	ByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]model.Book, string, error)
	ByCategory(ctx context.Context, categoryID string, limit int, cursor string) ([]model.Book, string, error)
	ByTitle(ctx context.Context, title string, limit int, cursor string) ([]model.Book, string, error)
	ByRating(ctx context.Context, rating int, limit int, cursor string) ([]model.Book, string, error)
	ByISBN(ctx context.Context, isbn string) ([]model.Book, error)
	BorrowedBy(ctx context.Context, borrowerID string) ([]model.Book, error)
	SearchCandidates(ctx context.Context, tokens []string) ([]model.SearchHit, error)
	Update(ctx context.Context, id string, patch map[string]any) (model.Book, error)
	Delete(ctx context.Context, id string) error
	Borrow(ctx context.Context, id, borrowerID string, startDate, returnDate time.Time) (model.Book, error)
	Return(ctx context.Context, id string) (model.Book, error)
}

type bookRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookRepository(db *sqlx.DB, log *zap.Logger) *bookRepository {
	return &bookRepository{
		db:  db,
		log: log.Named("book-repo"),
	}
}

var bookColumns = []string{
	"id", "title", "author_id", "category_id", "isbn", "status",
	"description", "published_year", "quantity", "cover_url", "pdf_url",
	"borrower_id", "start_date", "return_date", "rating",
	"created_at", "updated_at",
}

func (r *bookRepository) Insert(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns(bookColumns...).
		Values(book.ID, book.Title, book.AuthorID, book.CategoryID, book.ISBN,
			book.Status, book.Description, book.PublishedYear, book.Quantity,
			book.CoverURL, book.PdfURL, book.BorrowerID, book.StartDate,
			book.ReturnDate, book.Rating, book.CreatedAt, book.UpdatedAt).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errors.Wrap(errs.ErrAlreadyExists, book.ISBN)
		}
		r.log.Error("Insert", zap.String("q", query), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) Get(ctx context.Context, id string) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) List(ctx context.Context, limit int, cursor string) ([]model.Book, string, error) {
	return r.list(ctx, limit, cursor, nil)
}

func (r *bookRepository) ByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]model.Book, string, error) {
	return r.list(ctx, limit, cursor, sq.Eq{"author_id": authorID})
}

func (r *bookRepository) ByCategory(ctx context.Context, categoryID string, limit int, cursor string) ([]model.Book, string, error) {
	return r.list(ctx, limit, cursor, sq.Eq{"category_id": categoryID})
}

func (r *bookRepository) ByTitle(ctx context.Context, title string, limit int, cursor string) ([]model.Book, string, error) {
	return r.list(ctx, limit, cursor, sq.Eq{"lower(title)": strings.ToLower(title)})
}

func (r *bookRepository) ByRating(ctx context.Context, rating int, limit int, cursor string) ([]model.Book, string, error) {
	return r.list(ctx, limit, cursor, sq.Eq{"rating": rating})
}

// ByISBN serves the uniqueness pre-check; empty is not an error here.
func (r *bookRepository) ByISBN(ctx context.Context, isbn string) ([]model.Book, error) {
	items, _, err := r.list(ctx, 1, "", sq.Eq{"isbn": isbn})
	return items, err
}

// BorrowedBy returns the active borrow set of one user via the
// (borrower_id, status) index.
func (r *bookRepository) BorrowedBy(ctx context.Context, borrowerID string) ([]model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"borrower_id": borrowerID}).
		Where(sq.Eq{"status": model.StatusBorrowed}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Book
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *bookRepository) list(ctx context.Context, limit int, cursor string, cond sq.Sqlizer) ([]model.Book, string, error) {
	limit = clampLimit(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("id").
		Limit(uint64(limit))
	if cond != nil {
		q = q.Where(cond)
	}
	if after != "" {
		q = q.Where(sq.Gt{"id": after})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, "", err
	}
	r.log.Debug("list", zap.String("query", query), zap.Any("args", args))

	var items []model.Book
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, "", err
	}

	var next string
	if len(items) == limit {
		next = encodeCursor(items[len(items)-1].ID)
	}
	return items, next, nil
}

// SearchCandidates fetches books whose title or author name contains any of
// the lowercased tokens. Ranking happens in the service layer.
func (r *bookRepository) SearchCandidates(ctx context.Context, tokens []string) ([]model.SearchHit, error) {
	cols := make([]string, 0, len(bookColumns)+1)
	for _, c := range bookColumns {
		cols = append(cols, "b."+c)
	}
	cols = append(cols, "coalesce(a.name, '') as author_name")

	var match sq.Or
	for _, tok := range tokens {
		pattern := "%" + tok + "%"
		match = append(match,
			sq.Like{"lower(b.title)": pattern},
			sq.Like{"lower(a.name)": pattern},
		)
	}

	query, args, err := qb.Select(cols...).
		From(booksTableName + " b").
		LeftJoin(authorsTableName + " a on a.id = b.author_id").
		Where(match).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var hits []model.SearchHit
	if err := r.db.SelectContext(ctx, &hits, query, args...); err != nil {
		r.log.Error("SearchCandidates", zap.String("q", query), zap.Error(err))
		return nil, err
	}
	return hits, nil
}

func (r *bookRepository) Update(ctx context.Context, id string, patch map[string]any) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(patch).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Book{}, errors.Wrap(errs.ErrAlreadyExists, id)
		}
		r.log.Error("Update", zap.String("q", query), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Borrow applies the borrow write in one statement. The only guard is that
// the record still exists; the quantity observed by the caller's
// eligibility checks is deliberately not re-checked, reproducing the
// source system's check-then-act window.
func (r *bookRepository) Borrow(ctx context.Context, id, borrowerID string, startDate, returnDate time.Time) (model.Book, error) {
	q := `update ` + booksTableName + `
    set quantity    = quantity - 1,
        status      = $2,
        borrower_id = $3,
        start_date  = $4,
        return_date = $5,
        updated_at  = $6
where id = $1
returning ` + strings.Join(bookColumns, ", ")

	var book model.Book
	err := r.db.GetContext(ctx, &book, q, id, model.StatusBorrowed, borrowerID,
		startDate, returnDate, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *bookRepository) Return(ctx context.Context, id string) (model.Book, error) {
	q := `update ` + booksTableName + `
    set quantity    = quantity + 1,
        status      = $2,
        borrower_id = null,
        start_date  = null,
        return_date = null,
        updated_at  = $3
where id = $1
returning ` + strings.Join(bookColumns, ", ")

	var book model.Book
	err := r.db.GetContext(ctx, &book, q, id, model.StatusAvailable, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}
