package handler

import (
	"context"

	"github.com/bookgrove/catalog-service/catalog/internal/model"
	"github.com/bookgrove/catalog-service/catalog/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type BookService interface {
	Create(ctx context.Context, req model.CreateBookRequest, cover, pdf model.Attachment) (model.Book, error)
	FindOne(ctx context.Context, id string) (model.Book, error)
	FindAll(ctx context.Context, limit int, cursor string) (model.BookList, error)
	FindByCategory(ctx context.Context, categoryID string, limit int, cursor string) (model.BookList, error)
	FindByAuthor(ctx context.Context, authorID string, limit int, cursor string) (model.BookList, error)
	FindByTitle(ctx context.Context, title string, limit int, cursor string) (model.BookList, error)
	FindByRating(ctx context.Context, rating int, limit int, cursor string) (model.BookList, error)
	Search(ctx context.Context, query string) ([]model.SearchHit, error)
	Update(ctx context.Context, id string, req model.UpdateBookRequest, cover, pdf *model.Attachment) (model.Book, error)
	Remove(ctx context.Context, id string) error
	Borrow(ctx context.Context, id, borrowerID string, req model.BorrowRequest) (model.Book, error)
	Return(ctx context.Context, id, userID string) (model.Book, error)
	BorrowedBy(ctx context.Context, userID string) ([]model.Book, error)
}

type AuthorService interface {
	Create(ctx context.Context, req model.CreateAuthorRequest, profile *model.Attachment) (model.Author, error)
	FindAll(ctx context.Context, limit int, cursor string) (model.AuthorList, error)
	FindOne(ctx context.Context, id string) (model.Author, error)
	FindByName(ctx context.Context, name string, limit int, cursor string) (model.AuthorList, error)
	Update(ctx context.Context, id string, req model.UpdateAuthorRequest, profile *model.Attachment) (model.Author, error)
	Remove(ctx context.Context, id string) error
}

type CategoryService interface {
	Create(ctx context.Context, req model.CreateCategoryRequest) (model.Category, error)
	FindAll(ctx context.Context, limit int, cursor string) (model.CategoryList, error)
	FindOne(ctx context.Context, id string) (model.Category, error)
	FindByName(ctx context.Context, name string, limit int, cursor string) (model.CategoryList, error)
	Update(ctx context.Context, id string, req model.UpdateCategoryRequest) (model.Category, error)
	Remove(ctx context.Context, id string) error
}

var (
	_ BookService     = (*service.BookService)(nil)
	_ AuthorService   = (*service.AuthorService)(nil)
	_ CategoryService = (*service.CategoryService)(nil)
)
