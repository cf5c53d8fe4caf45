package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

// BlobStore is the object-storage collaborator for binary attachments.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (string, error)
	Delete(ctx context.Context, ref string) error
}

const profilesFolder = "profiles"

type AuthorService struct {
	dir   *Directory[model.Author]
	blobs BlobStore
	log   *zap.Logger
}

func NewAuthorService(repo DirectoryRepo[model.Author], blobs BlobStore, log *zap.Logger) *AuthorService {
	return &AuthorService{
		dir:   NewDirectory("author", repo, log),
		blobs: blobs,
		log:   log.Named("author"),
	}
}

func (s *AuthorService) Create(ctx context.Context, req model.CreateAuthorRequest, profile *model.Attachment) (model.Author, error) {
	var profileURL string
	if profile != nil {
		url, err := s.blobs.Upload(ctx, profile.Data, profile.ContentType, profilesFolder)
		if err != nil {
			return model.Author{}, err
		}
		profileURL = url
	}

	now := time.Now().UTC()
	return s.dir.Create(ctx, model.Author{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Biography:   req.Biography,
		BirthDate:   req.BirthDate,
		Nationality: req.Nationality,
		Email:       req.Email,
		Genres:      req.Genres,
		SocialMedia: req.SocialMedia,
		ProfileURL:  profileURL,
		BooksCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *AuthorService) FindAll(ctx context.Context, limit int, cursor string) (model.AuthorList, error) {
	items, next, err := s.dir.FindAll(ctx, limit, cursor)
	if err != nil {
		return model.AuthorList{}, err
	}
	return model.AuthorList{Items: items, NextCursor: next}, nil
}

func (s *AuthorService) FindOne(ctx context.Context, id string) (model.Author, error) {
	return s.dir.FindOne(ctx, id)
}

func (s *AuthorService) FindByName(ctx context.Context, name string, limit int, cursor string) (model.AuthorList, error) {
	items, next, err := s.dir.FindByName(ctx, name, limit, cursor)
	if err != nil {
		return model.AuthorList{}, err
	}
	return model.AuthorList{Items: items, NextCursor: next}, nil
}

// Update patches scalar fields; a new profile image is uploaded before the
// previous one is deleted, so a failed upload never destroys a working
// asset.
func (s *AuthorService) Update(ctx context.Context, id string, req model.UpdateAuthorRequest, profile *model.Attachment) (model.Author, error) {
	patch := map[string]any{}
	if req.Biography != nil {
		patch["biography"] = *req.Biography
	}
	if req.BirthDate != nil {
		patch["birth_date"] = *req.BirthDate
	}
	if req.Nationality != nil {
		patch["nationality"] = *req.Nationality
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.Genres != nil {
		patch["genres"] = req.Genres
	}
	if req.SocialMedia != nil {
		patch["social_media"] = req.SocialMedia
	}

	var oldProfile string
	if profile != nil {
		cur, err := s.dir.FindOne(ctx, id)
		if err != nil {
			return model.Author{}, err
		}
		oldProfile = cur.ProfileURL

		url, err := s.blobs.Upload(ctx, profile.Data, profile.ContentType, profilesFolder)
		if err != nil {
			return model.Author{}, err
		}
		patch["profile_url"] = url
	}

	var newName string
	if req.Name != nil {
		newName = *req.Name
	}
	updated, err := s.dir.Update(ctx, id, newName, patch)
	if err != nil {
		return model.Author{}, err
	}

	if oldProfile != "" {
		if err := s.blobs.Delete(ctx, oldProfile); err != nil {
			s.log.Warn("delete previous profile image", zap.String("ref", oldProfile), zap.Error(err))
		}
	}
	return updated, nil
}

// Remove deletes the author once the dependent-count guard passes; the
// profile image is removed after the record, best-effort.
func (s *AuthorService) Remove(ctx context.Context, id string) error {
	cur, err := s.dir.FindOne(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dir.Remove(ctx, id); err != nil {
		return err
	}
	if cur.ProfileURL != "" {
		if err := s.blobs.Delete(ctx, cur.ProfileURL); err != nil {
			s.log.Warn("delete profile image", zap.String("ref", cur.ProfileURL), zap.Error(err))
		}
	}
	return nil
}

func (s *AuthorService) IncrementBooks(ctx context.Context, id string) error {
	return s.dir.IncrementBooks(ctx, id)
}

func (s *AuthorService) DecrementBooks(ctx context.Context, id string) error {
	return s.dir.DecrementBooks(ctx, id)
}
