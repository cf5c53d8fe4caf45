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

type record interface {
	RecordID() string
}

// DirectoryRepo is the record-store adapter for the two named-counted
// tables (authors, categories). One generic implementation, two instances.
type DirectoryRepo[T record] struct {
	db      *sqlx.DB
	log     *zap.Logger
	table   string
	columns []string
	toRow   func(T) map[string]any
}

func NewAuthorRepository(db *sqlx.DB, log *zap.Logger) *DirectoryRepo[model.Author] {
	return &DirectoryRepo[model.Author]{
		db:    db,
		log:   log.Named("author-repo"),
		table: authorsTableName,
		columns: []string{
			"id", "name", "biography", "birth_date", "nationality", "email",
			"genres", "social_media", "profile_url", "books_count",
			"created_at", "updated_at",
		},
		toRow: func(a model.Author) map[string]any {
			return map[string]any{
				"id":           a.ID,
				"name":         a.Name,
				"biography":    a.Biography,
				"birth_date":   a.BirthDate,
				"nationality":  a.Nationality,
				"email":        a.Email,
				"genres":       a.Genres,
				"social_media": a.SocialMedia,
				"profile_url":  a.ProfileURL,
				"books_count":  a.BooksCount,
				"created_at":   a.CreatedAt,
				"updated_at":   a.UpdatedAt,
			}
		},
	}
}

func NewCategoryRepository(db *sqlx.DB, log *zap.Logger) *DirectoryRepo[model.Category] {
	return &DirectoryRepo[model.Category]{
		db:    db,
		log:   log.Named("category-repo"),
		table: categoriesTableName,
		columns: []string{
			"id", "name", "description", "books_count", "created_at", "updated_at",
		},
		toRow: func(c model.Category) map[string]any {
			return map[string]any{
				"id":          c.ID,
				"name":        c.Name,
				"description": c.Description,
				"books_count": c.BooksCount,
				"created_at":  c.CreatedAt,
				"updated_at":  c.UpdatedAt,
			}
		},
	}
}

// Insert writes a new record; a duplicate id maps to ErrAlreadyExists.
func (r *DirectoryRepo[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T
	query, args, err := qb.Insert(r.table).
		SetMap(r.toRow(rec)).
		ToSql()
	if err != nil {
		return zero, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return zero, errors.Wrap(errs.ErrAlreadyExists, rec.RecordID())
		}
		r.log.Error("Insert", zap.String("q", query), zap.Error(err))
		return zero, err
	}
	return rec, nil
}

func (r *DirectoryRepo[T]) Get(ctx context.Context, id string) (T, error) {
	var rec T
	query, args, err := qb.Select(r.columns...).
		From(r.table).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return rec, err
	}
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, errs.ErrNotFound
		}
		return rec, err
	}
	return rec, nil
}

// ByName queries the name index. An empty page is not an error here;
// callers decide what emptiness means.
func (r *DirectoryRepo[T]) ByName(ctx context.Context, name string, limit int, cursor string) ([]T, string, error) {
	return r.list(ctx, limit, cursor, sq.Eq{"name": name})
}

func (r *DirectoryRepo[T]) List(ctx context.Context, limit int, cursor string) ([]T, string, error) {
	return r.list(ctx, limit, cursor, nil)
}

func (r *DirectoryRepo[T]) list(ctx context.Context, limit int, cursor string, cond sq.Sqlizer) ([]T, string, error) {
	limit = clampLimit(limit)
	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	q := qb.Select(r.columns...).
		From(r.table).
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
	var items []T
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.log.Error("list", zap.String("q", query), zap.Error(err))
		return nil, "", err
	}

	var next string
	if len(items) == limit {
		next = encodeCursor(items[len(items)-1].RecordID())
	}
	return items, next, nil
}

// Update patches the given columns; zero rows means the record is gone.
func (r *DirectoryRepo[T]) Update(ctx context.Context, id string, patch map[string]any) (T, error) {
	var rec T
	query, args, err := qb.Update(r.table).
		SetMap(patch).
		Where(sq.Eq{"id": id}).
		Suffix("returning " + strings.Join(r.columns, ", ")).
		ToSql()
	if err != nil {
		return rec, err
	}
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, errs.ErrNotFound
		}
		r.log.Error("Update", zap.String("q", query), zap.Error(err))
		return rec, err
	}
	return rec, nil
}

func (r *DirectoryRepo[T]) Delete(ctx context.Context, id string) error {
	query, args, err := qb.Delete(r.table).
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

// IncrementBooks bumps the dependent-book counter with a single atomic
// expression.
func (r *DirectoryRepo[T]) IncrementBooks(ctx context.Context, id string) error {
	q := `update ` + r.table + `
    set books_count = books_count + 1, updated_at = $2
where id = $1`
	res, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DecrementBooks is guarded against underflow: the counter never drops
// below zero, and a decrement attempted at zero fails without changing it.
func (r *DirectoryRepo[T]) DecrementBooks(ctx context.Context, id string) error {
	q := `update ` + r.table + `
    set books_count = books_count - 1, updated_at = $2
where id = $1 and books_count > 0`
	res, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return errs.ErrCounterUnderflow
}
