package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/service"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// writeError maps service errors onto status codes. fallback is the message
// shown for anything unexpected.
func writeError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", fallback+": not found"))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("unauthorized", "unauthorized"))
	case errors.Is(err, service.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, NewErrorResponse("store_unavailable", fallback))
	case errors.Is(err, service.ErrDraftUnavailable):
		return c.JSON(http.StatusBadGateway, NewErrorResponse("draft_unavailable", fallback))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return c.JSON(http.StatusGatewayTimeout, NewErrorResponse("timeout", fallback))
	}
	c.Logger().Errorf("%s: %v", fallback, err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", fallback))
}

func scopeOf(c echo.Context) service.Scope {
	uid, _ := c.Get("uid").(string)
	return service.Scope{UserID: uid}
}
