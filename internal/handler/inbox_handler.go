package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/social-inbox/internal/model"
	"github.com/shinyyama/social-inbox/internal/service"
)

type InboxHandler struct {
	svc service.InboxService
}

func NewInboxHandler(svc service.InboxService) *InboxHandler {
	return &InboxHandler{svc: svc}
}

type MessageListResponse struct {
	Messages []model.Message `json:"messages"`
	Counts   service.Counts  `json:"counts"`
}

type ThreadResponse struct {
	Message *model.Message       `json:"message"`
	Replies []model.MessageReply `json:"replies"`
}

type CreateReplyRequest struct {
	Content  string `json:"content"`
	SentByAI bool   `json:"sentByAi"`
}

type ReplyResponse struct {
	Reply   *model.MessageReply `json:"reply"`
	Message *model.Message      `json:"message"`
}

type PartialWriteResponse struct {
	ErrorResponse
	Reply *model.MessageReply `json:"reply"`
}

func (h *InboxHandler) List(c echo.Context) error {
	f := service.Filter{
		Platform:  c.QueryParam("platform"),
		Status:    c.QueryParam("status"),
		Sentiment: c.QueryParam("sentiment"),
		Search:    c.QueryParam("search"),
	}
	list, err := h.svc.FetchMessages(c.Request().Context(), scopeOf(c), f)
	if err != nil {
		return writeError(c, err, "failed to fetch messages")
	}
	if list == nil {
		list = []model.Message{}
	}
	return c.JSON(http.StatusOK, MessageListResponse{Messages: list, Counts: service.CountMessages(list)})
}

func (h *InboxHandler) load(c echo.Context) (*model.Message, error) {
	return h.svc.GetMessage(c.Request().Context(), scopeOf(c), c.Param("id"))
}

func (h *InboxHandler) Select(c echo.Context) error {
	msg, err := h.load(c)
	if err != nil {
		return writeError(c, err, "message")
	}
	replies, err := h.svc.SelectMessage(c.Request().Context(), scopeOf(c), msg)
	if err != nil {
		return writeError(c, err, "failed to fetch replies")
	}
	return c.JSON(http.StatusOK, ThreadResponse{Message: msg, Replies: replies})
}

func (h *InboxHandler) ListReplies(c echo.Context) error {
	msg, err := h.load(c)
	if err != nil {
		return writeError(c, err, "message")
	}
	replies, err := h.svc.ListReplies(c.Request().Context(), scopeOf(c), msg)
	if err != nil {
		return writeError(c, err, "failed to fetch replies")
	}
	return c.JSON(http.StatusOK, ThreadResponse{Message: msg, Replies: replies})
}

func (h *InboxHandler) Reply(c echo.Context) error {
	var req CreateReplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	msg, err := h.load(c)
	if err != nil {
		return writeError(c, err, "message")
	}
	reply, err := h.svc.SubmitReply(c.Request().Context(), scopeOf(c), msg, req.Content, req.SentByAI)
	if errors.Is(err, service.ErrPartialWrite) {
		return c.JSON(http.StatusInternalServerError, PartialWriteResponse{
			ErrorResponse: NewErrorResponse("partial_write", "reply stored but message state not updated"),
			Reply:         reply,
		})
	}
	if err != nil {
		return writeError(c, err, "failed to send reply")
	}
	return c.JSON(http.StatusCreated, ReplyResponse{Reply: reply, Message: msg})
}

func (h *InboxHandler) Draft(c echo.Context) error {
	msg, err := h.load(c)
	if err != nil {
		return writeError(c, err, "message")
	}
	draft, err := h.svc.GenerateDraft(c.Request().Context(), scopeOf(c), msg)
	if err != nil {
		return writeError(c, err, "failed to generate draft")
	}
	return c.JSON(http.StatusOK, map[string]string{"draft": draft})
}

func (h *InboxHandler) Reconcile(c echo.Context) error {
	scope := scopeOf(c)
	if scope.UserID == "" {
		return writeError(c, service.ErrForbidden, "unauthorized")
	}
	n, err := h.svc.ReconcileReplied(c.Request().Context(), scope)
	if err != nil {
		return writeError(c, err, "failed to reconcile messages")
	}
	return c.JSON(http.StatusOK, map[string]int{"repaired": n})
}
