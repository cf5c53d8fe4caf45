package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/bookgrove/catalog-service/catalog/internal/errs"
	"github.com/bookgrove/catalog-service/catalog/internal/model"
)

func (h *Handler) CreateCategory(c echo.Context) error {
	var req model.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	category, err := h.categorySvc.Create(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *Handler) ListCategories(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.categorySvc.FindAll(c.Request().Context(), limit, cursor)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetCategory(c echo.Context) error {
	category, err := h.categorySvc.FindOne(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) CategoriesByName(c echo.Context) error {
	limit, cursor := pageParams(c)
	list, err := h.categorySvc.FindByName(c.Request().Context(), c.Param("name"), limit, cursor)
	if err != nil {
		if errors.Is(err, errs.ErrNotFoundByName) {
			return c.JSON(http.StatusOK, model.CategoryList{Items: []model.Category{}})
		}
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateCategory(c echo.Context) error {
	var req model.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	category, err := h.categorySvc.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c echo.Context) error {
	if err := h.categorySvc.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
