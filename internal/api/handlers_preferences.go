package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/thywilljoshua/slidenotes/internal/store"
)

type themeRequest struct {
	Theme string `json:"theme"`
}

type themeResponse struct {
	Theme store.Theme `json:"theme"`
}

func (h *Handler) HandleGetTheme(c echo.Context) error {
	t, err := h.deps.Store.Theme(c.Request().Context())
	if err != nil {
		return fromDomain(err)
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: t})
}

func (h *Handler) HandleSetTheme(c echo.Context) error {
	var req themeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	t, err := store.ParseTheme(req.Theme)
	if err != nil {
		return NewValidationError("theme", err)
	}
	if err := h.deps.Store.SetTheme(c.Request().Context(), t); err != nil {
		return fromDomain(err)
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: t})
}

func (h *Handler) HandleToggleTheme(c echo.Context) error {
	t, err := h.deps.Store.ToggleTheme(c.Request().Context())
	if err != nil {
		return fromDomain(err)
	}
	return c.JSON(http.StatusOK, themeResponse{Theme: t})
}
