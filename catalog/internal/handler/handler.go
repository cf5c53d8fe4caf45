package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/bookgrove/catalog-service/docs"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
	md "github.com/bookgrove/catalog-service/pkg/middleware"
	"github.com/bookgrove/catalog-service/pkg/validate"
)

type Handler struct {
	bookSvc     BookService
	authorSvc   AuthorService
	categorySvc CategoryService
	log         *zap.Logger
}

func New(bookSvc BookService, authorSvc AuthorService, categorySvc CategoryService, log *zap.Logger) *Handler {
	return &Handler{
		bookSvc:     bookSvc,
		authorSvc:   authorSvc,
		categorySvc: categorySvc,
		log:         log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	admin := []echo.MiddlewareFunc{md.Authentication, md.RequireAdmin}

	api.POST("/books", h.CreateBook, admin...)
	api.GET("/books", h.ListBooks)
	api.GET("/books/search", h.SearchBooks)
	api.GET("/books/borrowed/me", h.MyBorrowedBooks, md.Authentication)
	api.GET("/books/category/:id", h.BooksByCategory)
	api.GET("/books/author/:id", h.BooksByAuthor)
	api.GET("/books/title/:title", h.BooksByTitle)
	api.GET("/books/rating/:n", h.BooksByRating)
	api.GET("/books/:id", h.GetBook)
	api.PATCH("/books/:id", h.UpdateBook, admin...)
	api.PATCH("/books/:id/borrow", h.BorrowBook, md.Authentication)
	api.POST("/books/:id/return", h.ReturnBook, md.Authentication)
	api.DELETE("/books/:id", h.DeleteBook, admin...)

	api.POST("/authors", h.CreateAuthor, admin...)
	api.GET("/authors", h.ListAuthors)
	api.GET("/authors/name/:name", h.AuthorsByName)
	api.GET("/authors/:id", h.GetAuthor)
	api.GET("/authors/:id/books", h.BooksOfAuthor)
	api.PATCH("/authors/:id", h.UpdateAuthor, admin...)
	api.DELETE("/authors/:id", h.DeleteAuthor, admin...)

	api.POST("/categories", h.CreateCategory, admin...)
	api.GET("/categories", h.ListCategories)
	api.GET("/categories/name/:name", h.CategoriesByName)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/categories/:id/books", h.BooksOfCategory)
	api.PATCH("/categories/:id", h.UpdateCategory, admin...)
	api.DELETE("/categories/:id", h.DeleteCategory, admin...)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the domain taxonomy onto status codes; anything unknown
// becomes an opaque 500, details stay in the server log.
func (h *Handler) httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists) || errors.Is(err, errs.ErrHasDependents):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errs.IsInvalidRequest(err) || errors.Is(err, errs.ErrBadCursor):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.log.Error("internal", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

func pageParams(c echo.Context) (int, string) {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return limit, c.QueryParam("cursor")
}

// formAttachment reads an optional multipart file; a missing part is not an
// error.
func formAttachment(c echo.Context, field string) (*model.Attachment, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// absent part or no multipart body at all
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &model.Attachment{
		Data:        data,
		ContentType: fh.Header.Get("Content-Type"),
		Name:        fh.Filename,
	}, nil
}
