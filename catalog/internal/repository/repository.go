package repository

import (
	"encoding/base64"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
)

const (
	booksTableName      = `books`
	authorsTableName    = `authors`
	categoriesTableName = `categories`

	defaultLimit = 20
	maxLimit     = 100
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Conditional-write conventions, shared by every repository here:
// insert conflicts surface as errs.ErrAlreadyExists, zero-row updates and
// deletes as errs.ErrNotFound, and a guarded counter decrement that matched
// the id but not the guard as errs.ErrCounterUnderflow. Each statement is
// atomic at single-record granularity; nothing spans records.

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Cursors are opaque keyset markers: base64 of the last id of the previous
// page.

func encodeCursor(id string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(id))
}

func decodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return "", errors.Wrap(errs.ErrBadCursor, cursor)
	}
	return string(b), nil
}
