package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

func newTestCategoryService(t *testing.T) (*CategoryService, *memDirectory[model.Category]) {
	t.Helper()
	repo := newMemDirectory[model.Category](bumpCategory)
	return NewCategoryService(repo, zap.NewNop()), repo
}

func newTestAuthorService(t *testing.T) (*AuthorService, *memDirectory[model.Author], *memBlobs) {
	t.Helper()
	repo := newMemDirectory[model.Author](bumpAuthor)
	blobs := &memBlobs{}
	return NewAuthorService(repo, blobs, zap.NewNop()), repo, blobs
}

func TestCategoryCreate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCategoryService(t)

	created, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming", Description: "computers"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, 0, created.BooksCount)

	_, err = svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = svc.Create(ctx, model.CreateCategoryRequest{Name: "Databases"})
	require.NoError(t, err)
}

func TestCategoryFindByName(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCategoryService(t)

	_, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming"})
	require.NoError(t, err)

	got, err := svc.FindByName(ctx, "Programming", 0, "")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)

	_, err = svc.FindByName(ctx, "Poetry", 0, "")
	require.ErrorIs(t, err, errs.ErrNotFoundByName)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestCategoryService(t)

	a, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.CreateCategoryRequest{Name: "Databases"})
	require.NoError(t, err)

	t.Run("rename to taken name", func(t *testing.T) {
		name := "Databases"
		_, err := svc.Update(ctx, a.ID, model.UpdateCategoryRequest{Name: &name})
		require.ErrorIs(t, err, errs.ErrAlreadyExists)
	})

	t.Run("rename to own name passes", func(t *testing.T) {
		name := "Programming"
		desc := "new description"
		_, err := svc.Update(ctx, a.ID, model.UpdateCategoryRequest{Name: &name, Description: &desc})
		require.NoError(t, err)
		require.Equal(t, "new description", repo.lastPatch["description"])
		require.Contains(t, repo.lastPatch, "updated_at")
	})

	t.Run("unknown id", func(t *testing.T) {
		desc := "x"
		_, err := svc.Update(ctx, "missing", model.UpdateCategoryRequest{Description: &desc})
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestCategoryRemove(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestCategoryService(t)

	created, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming"})
	require.NoError(t, err)

	t.Run("guard blocks while books exist", func(t *testing.T) {
		require.NoError(t, repo.IncrementBooks(ctx, created.ID))
		require.ErrorIs(t, svc.Remove(ctx, created.ID), errs.ErrHasDependents)
	})

	t.Run("empty category goes away", func(t *testing.T) {
		require.NoError(t, repo.DecrementBooks(ctx, created.ID))
		require.NoError(t, svc.Remove(ctx, created.ID))

		_, err := svc.FindOne(ctx, created.ID)
		require.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		require.ErrorIs(t, svc.Remove(ctx, "missing"), errs.ErrNotFound)
	})
}

func TestCategoryCounters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestCategoryService(t)

	created, err := svc.Create(ctx, model.CreateCategoryRequest{Name: "Programming"})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementBooks(ctx, created.ID))
	require.NoError(t, svc.IncrementBooks(ctx, created.ID))
	require.NoError(t, svc.DecrementBooks(ctx, created.ID))
	require.NoError(t, svc.DecrementBooks(ctx, created.ID))

	// the stored counter never goes negative
	require.ErrorIs(t, svc.DecrementBooks(ctx, created.ID), errs.ErrCounterUnderflow)

	got, err := svc.FindOne(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 0, got.BooksCount)
}

func TestAuthorCreateWithProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, blobs := newTestAuthorService(t)

	profile := &model.Attachment{Data: []byte("img"), ContentType: "image/jpeg", Name: "face.jpg"}
	created, err := svc.Create(ctx, model.CreateAuthorRequest{
		Name:   "Alan Donovan",
		Email:  "alan@example.com",
		Genres: model.StringList{"programming"},
	}, profile)
	require.NoError(t, err)
	require.NotEmpty(t, created.ProfileURL)
	require.Len(t, blobs.uploaded, 1)

	// no attachment means no upload
	plain, err := svc.Create(ctx, model.CreateAuthorRequest{Name: "Jon Bodner"}, nil)
	require.NoError(t, err)
	require.Empty(t, plain.ProfileURL)
	require.Len(t, blobs.uploaded, 1)
}

func TestAuthorUpdateReplacesProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, blobs := newTestAuthorService(t)

	created, err := svc.Create(ctx, model.CreateAuthorRequest{Name: "Alan Donovan"},
		&model.Attachment{Data: []byte("v1"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	old := created.ProfileURL

	_, err = svc.Update(ctx, created.ID, model.UpdateAuthorRequest{},
		&model.Attachment{Data: []byte("v2"), ContentType: "image/jpeg"})
	require.NoError(t, err)
	require.Equal(t, []string{old}, blobs.deleted)
}

func TestAuthorRemoveDeletesProfile(t *testing.T) {
	ctx := context.Background()
	svc, _, blobs := newTestAuthorService(t)

	created, err := svc.Create(ctx, model.CreateAuthorRequest{Name: "Alan Donovan"},
		&model.Attachment{Data: []byte("img"), ContentType: "image/jpeg"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, created.ID))
	require.Equal(t, []string{created.ProfileURL}, blobs.deleted)

	_, err = svc.FindOne(ctx, created.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}
