package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/application/notification"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// accepted last_check layouts; values without a zone are UTC
var lastCheckLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

// NotificationHandler the notification feed endpoints.
type NotificationHandler struct {
	feed *notification.Feed
	log  *logger.Logger
}

// NewNotificationHandler builds the handler.
func NewNotificationHandler(feed *notification.Feed, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{feed: feed, log: log}
}

// Recent GET /api/notifications: newest entries for the badge.
func (h *NotificationHandler) Recent(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.feed.Recent(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// All GET /api/notifications/all
func (h *NotificationHandler) All(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	out, err := h.feed.ListAll(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Page GET /api/notifications/list?page=&limit=
func (h *NotificationHandler) Page(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "page and limit must be integers")
	}
	out, err := h.feed.List(c.Context(), tenantID, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkRead POST /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	return h.mutate(c, h.feed.MarkRead, "Notification marked as read")
}

// MarkUnread POST /api/notifications/:id/unread
func (h *NotificationHandler) MarkUnread(c *fiber.Ctx) error {
	return h.mutate(c, h.feed.MarkUnread, "Notification marked as unread")
}

// Delete DELETE|POST /api/notifications/:id/delete
func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	return h.mutate(c, h.feed.Delete, "Notification deleted")
}

// MarkAllRead POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	n, err := h.feed.MarkAllRead(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Status: dto.StatusSuccess, Message: "All notifications marked as read", Count: &n})
}

// ClearAll DELETE|POST /api/notifications/clear-all
func (h *NotificationHandler) ClearAll(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	n, err := h.feed.DeleteAll(c.Context(), tenantID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Status: dto.StatusSuccess, Message: "All notifications cleared", Count: &n})
}

// CheckNew GET /api/notifications/check-new?last_check=<ISO-8601>
func (h *NotificationHandler) CheckNew(c *fiber.Ctx) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var since *time.Time
	if raw := strings.TrimSpace(c.Query("last_check")); raw != "" {
		t, ok := parseLastCheck(raw)
		if !ok {
			return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", "last_check must be an ISO-8601 timestamp")
		}
		since = &t
	}
	out, err := h.feed.CheckNew(c.Context(), tenantID, since)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *NotificationHandler) mutate(c *fiber.Ctx, fn func(ctx context.Context, tenantID, id string) error, message string) error {
	tenantID := GetUserID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if err := fn(c.Context(), tenantID, c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Status: dto.StatusSuccess, Message: message})
}

func parseLastCheck(raw string) (time.Time, bool) {
	for _, layout := range lastCheckLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
