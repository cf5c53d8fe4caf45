package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

type CategoryService struct {
	dir *Directory[model.Category]
}

func NewCategoryService(repo DirectoryRepo[model.Category], log *zap.Logger) *CategoryService {
	return &CategoryService{
		dir: NewDirectory("category", repo, log),
	}
}

func (s *CategoryService) Create(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error) {
	now := time.Now().UTC()
	return s.dir.Create(ctx, model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		BooksCount:  0,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (s *CategoryService) FindAll(ctx context.Context, limit int, cursor string) (model.CategoryList, error) {
	items, next, err := s.dir.FindAll(ctx, limit, cursor)
	if err != nil {
		return model.CategoryList{}, err
	}
	return model.CategoryList{Items: items, NextCursor: next}, nil
}

func (s *CategoryService) FindOne(ctx context.Context, id string) (model.Category, error) {
	return s.dir.FindOne(ctx, id)
}

func (s *CategoryService) FindByName(ctx context.Context, name string, limit int, cursor string) (model.CategoryList, error) {
	items, next, err := s.dir.FindByName(ctx, name, limit, cursor)
	if err != nil {
		return model.CategoryList{}, err
	}
	return model.CategoryList{Items: items, NextCursor: next}, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, req model.UpdateCategoryRequest) (model.Category, error) {
	patch := map[string]any{}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	var newName string
	if req.Name != nil {
		newName = *req.Name
	}
	return s.dir.Update(ctx, id, newName, patch)
}

func (s *CategoryService) Remove(ctx context.Context, id string) error {
	return s.dir.Remove(ctx, id)
}

func (s *CategoryService) IncrementBooks(ctx context.Context, id string) error {
	return s.dir.IncrementBooks(ctx, id)
}

func (s *CategoryService) DecrementBooks(ctx context.Context, id string) error {
	return s.dir.DecrementBooks(ctx, id)
}
