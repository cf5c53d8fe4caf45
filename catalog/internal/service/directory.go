package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
)

type record interface {
	RecordID() string
	RecordName() string
	Dependents() int
}

// DirectoryRepo is the storage contract shared by the author and category
// tables.
type DirectoryRepo[T record] interface {
	Insert(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id string) (T, error)
	ByName(ctx context.Context, name string, limit int, cursor string) ([]T, string, error)
	List(ctx context.Context, limit int, cursor string) ([]T, string, error)
	Update(ctx context.Context, id string, patch map[string]any) (T, error)
	Delete(ctx context.Context, id string) error
	IncrementBooks(ctx context.Context, id string) error
	DecrementBooks(ctx context.Context, id string) error
}

// Directory implements the named-counted entity manager once; authors and
// categories are two instances of it. It owns name uniqueness, the
// dependent-count delete guard and the counter operations.
type Directory[T record] struct {
	kind string
	repo DirectoryRepo[T]
	log  *zap.Logger
}

func NewDirectory[T record](kind string, repo DirectoryRepo[T], log *zap.Logger) *Directory[T] {
	return &Directory[T]{
		kind: kind,
		repo: repo,
		log:  log.Named(kind),
	}
}

// Create inserts rec after a name pre-check. The pre-check and the insert
// are separate store calls; two creators racing on one name can both pass,
// which matches the source system (names carry no store-level constraint).
func (d *Directory[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	same, _, err := d.repo.ByName(ctx, rec.RecordName(), 1, "")
	if err != nil {
		return zero, errors.Wrapf(err, "create %s", d.kind)
	}
	if len(same) > 0 {
		return zero, errors.Wrapf(errs.ErrAlreadyExists, "%s %q", d.kind, rec.RecordName())
	}
	created, err := d.repo.Insert(ctx, rec)
	if err != nil {
		return zero, err
	}
	d.log.Info("created", zap.String("id", created.RecordID()))
	return created, nil
}

func (d *Directory[T]) FindAll(ctx context.Context, limit int, cursor string) ([]T, string, error) {
	return d.repo.List(ctx, limit, cursor)
}

func (d *Directory[T]) FindOne(ctx context.Context, id string) (T, error) {
	return d.repo.Get(ctx, id)
}

// FindByName signals ErrNotFoundByName on an empty index result; callers
// treat it as recoverable and substitute an empty list.
func (d *Directory[T]) FindByName(ctx context.Context, name string, limit int, cursor string) ([]T, string, error) {
	items, next, err := d.repo.ByName(ctx, name, limit, cursor)
	if err != nil {
		return nil, "", err
	}
	if len(items) == 0 {
		return nil, "", errors.Wrapf(errs.ErrNotFoundByName, "%s %q", d.kind, name)
	}
	return items, next, nil
}

// Update patches the provided fields. A name change re-runs the uniqueness
// check, excluding the record itself.
func (d *Directory[T]) Update(ctx context.Context, id, newName string, patch map[string]any) (T, error) {
	var zero T
	cur, err := d.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if newName != "" && newName != cur.RecordName() {
		same, _, err := d.repo.ByName(ctx, newName, 2, "")
		if err != nil {
			return zero, errors.Wrapf(err, "update %s", d.kind)
		}
		for _, rec := range same {
			if rec.RecordID() != id {
				return zero, errors.Wrapf(errs.ErrAlreadyExists, "%s %q", d.kind, newName)
			}
		}
		patch["name"] = newName
	}
	patch["updated_at"] = time.Now().UTC()
	return d.repo.Update(ctx, id, patch)
}

// Remove refuses while dependent books exist.
func (d *Directory[T]) Remove(ctx context.Context, id string) error {
	cur, err := d.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if cur.Dependents() > 0 {
		return errors.Wrapf(errs.ErrHasDependents, "%s %s has %d books", d.kind, id, cur.Dependents())
	}
	if err := d.repo.Delete(ctx, id); err != nil {
		return err
	}
	d.log.Info("removed", zap.String("id", id))
	return nil
}

func (d *Directory[T]) IncrementBooks(ctx context.Context, id string) error {
	return d.repo.IncrementBooks(ctx, id)
}

func (d *Directory[T]) DecrementBooks(ctx context.Context, id string) error {
	return d.repo.DecrementBooks(ctx, id)
}
