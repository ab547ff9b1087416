package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/service"
)

type AIConfigHandler struct {
	svc service.AIConfigService
}

func NewAIConfigHandler(svc service.AIConfigService) *AIConfigHandler {
	return &AIConfigHandler{svc: svc}
}

func (h *AIConfigHandler) Get(c echo.Context) error {
	cfg, err := h.svc.Get(c.Request().Context(), scopeOf(c))
	if err != nil {
		return writeError(c, err, "failed to load ai configuration")
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *AIConfigHandler) Put(c echo.Context) error {
	var req model.AIConfiguration
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	cfg, err := h.svc.Save(c.Request().Context(), scopeOf(c), req)
	if err != nil {
		return writeError(c, err, "failed to save ai configuration")
	}
	return c.JSON(http.StatusOK, cfg)
}

type AnalyticsHandler struct {
	svc service.AnalyticsService
}

func NewAnalyticsHandler(svc service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) Summary(c echo.Context) error {
	days := 0
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid days"))
		}
		days = n
	}
	sum, err := h.svc.Summary(c.Request().Context(), scopeOf(c), c.QueryParam("account"), days)
	if err != nil {
		return writeError(c, err, "failed to load analytics")
	}
	return c.JSON(http.StatusOK, sum)
}
