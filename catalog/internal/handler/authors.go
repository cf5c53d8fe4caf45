package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

func (h *Handler) CreateAuthor(c echo.Context) error {
	var req model.CreateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	profile, err := formAttachment(c, "profile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.authorSvc.Create(c.Request().Context(), req, profile)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, author)
}

func (h *Handler) ListAuthors(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.authorSvc.FindAll(c.Request().Context(), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetAuthor(c echo.Context) error {
	author, err := h.authorSvc.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

// AuthorsByName substitutes an empty page when the name lookup comes back
// empty.
func (h *Handler) AuthorsByName(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.authorSvc.FindByName(c.Request().Context(), c.Param("name"), limit, cursor)
	if err != nil {
		if errors.Is(err, errs.ErrNotFoundByName) {
			return c.JSON(http.StatusOK, model.AuthorList{Items: []model.Author{}})
		}
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateAuthor(c echo.Context) error {
	var req model.UpdateAuthorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	profile, err := formAttachment(c, "profile")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	author, err := h.authorSvc.Update(c.Request().Context(), c.Param("id"), req, profile)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, author)
}

func (h *Handler) DeleteAuthor(c echo.Context) error {
	if err := h.authorSvc.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
