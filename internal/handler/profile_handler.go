package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/service"
)

type ProfileHandler struct {
	svc service.ProfileService
}

func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName"`
	AvatarURL *string `json:"avatarUrl"`
}

func (h *ProfileHandler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), scopeOf(c))
	if err != nil {
		return writeError(c, err, "failed to load profile")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Put(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	p, err := h.svc.Update(c.Request().Context(), scopeOf(c), service.ProfileUpdate{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return writeError(c, err, "failed to save profile")
	}
	return c.JSON(http.StatusOK, p)
}
