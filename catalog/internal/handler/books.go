package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookgrove/catalog-service/catalog/internal/model"
	"github.com/bookgrove/catalog-service/pkg/auth"
)

// CreateBook godoc
//
//	@Summary	Create a book with cover and pdf attachments
//	@Tags		books
//	@Accept		mpfd
//	@Success	201	{object}	model.Book
//	@Router		/books [post]
func (h *Handler) CreateBook(c echo.Context) error {
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	cover, err := formAttachment(c, "cover")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pdf, err := formAttachment(c, "pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if cover == nil || pdf == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cover and pdf files are required")
	}

	book, err := h.bookSvc.Create(c.Request().Context(), req, *cover, *pdf)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.bookSvc.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.bookSvc.FindAll(c.Request().Context(), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) BooksByCategory(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.bookSvc.FindByCategory(c.Request().Context(), c.Param("id"), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) BooksByAuthor(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.bookSvc.FindByAuthor(c.Request().Context(), c.Param("id"), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// BooksOfAuthor serves GET /authors/:id/books.
func (h *Handler) BooksOfAuthor(c echo.Context) error {
	return h.BooksByAuthor(c)
}

// BooksOfCategory serves GET /categories/:id/books.
func (h *Handler) BooksOfCategory(c echo.Context) error {
	return h.BooksByCategory(c)
}

func (h *Handler) BooksByTitle(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.bookSvc.FindByTitle(c.Request().Context(), c.Param("title"), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) BooksByRating(c echo.Context) error {
	rating, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be an integer")
	}
	limit, cursor := pageParams(c)
	list, err := h.bookSvc.FindByRating(c.Request().Context(), rating, limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) SearchBooks(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is empty")
	}
	hits, err := h.bookSvc.Search(c.Request().Context(), query)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	cover, err := formAttachment(c, "cover")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pdf, err := formAttachment(c, "pdf")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.bookSvc.Update(c.Request().Context(), c.Param("id"), req, cover, pdf)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.bookSvc.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// BorrowBook godoc
//
//	@Summary	Borrow a book for the authenticated user
//	@Tags		books
//	@Router		/books/{id}/borrow [patch]
func (h *Handler) BorrowBook(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.UserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	book, err := h.bookSvc.Borrow(ctx, c.Param("id"), userName, req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.UserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	book, err := h.bookSvc.Return(ctx, c.Param("id"), userName)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) MyBorrowedBooks(c echo.Context) error {
	ctx := c.Request().Context()
	userName, err := auth.UserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	books, err := h.bookSvc.BorrowedBy(ctx, userName)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}
