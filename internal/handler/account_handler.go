package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/service"
)

type AccountHandler struct {
	svc service.AccountService
}

func NewAccountHandler(svc service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

type UpdateAccountRequest struct {
	IsActive *bool `json:"isActive"`
}

type SyncAccountsRequest struct {
	AccountIDs []string `json:"accountIds"`
}

func (h *AccountHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), scopeOf(c))
	if err != nil {
		return writeError(c, err, "failed to fetch accounts")
	}
	return c.JSON(http.StatusOK, map[string][]model.SocialAccount{"accounts": list})
}

func (h *AccountHandler) Update(c echo.Context) error {
	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	if req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "isActive is required"))
	}
	acc, err := h.svc.SetActive(c.Request().Context(), scopeOf(c), c.Param("id"), *req.IsActive)
	if err != nil {
		return writeError(c, err, "account")
	}
	return c.JSON(http.StatusOK, acc)
}

func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), scopeOf(c), c.Param("id")); err != nil {
		return writeError(c, err, "account")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AccountHandler) Sync(c echo.Context) error {
	var req SyncAccountsRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
		}
	}
	n, err := h.svc.Sync(c.Request().Context(), scopeOf(c), req.AccountIDs)
	if err != nil {
		return writeError(c, err, "account")
	}
	return c.JSON(http.StatusAccepted, map[string]int64{"synced": n})
}
