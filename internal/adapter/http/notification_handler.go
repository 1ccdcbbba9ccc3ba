package http

import (
	"net/http"
	"time"

	"mouthpiece-market/internal/domain/notification"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ repo notification.Repository }

func NewNotificationHandler(repo notification.Repository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	out, err := h.repo.ListByRecipient(c.Request().Context(), actor)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid Ax-User-Id"})
	}
	// scoping by recipient means users can only ack their own notifications
	err := h.repo.MarkRead(c.Request().Context(), c.Param("notification_id"), actor, time.Now().UTC())
	if err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
