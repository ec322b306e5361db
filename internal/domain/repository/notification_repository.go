package repository

import (
	"context"
	"time"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// NotificationFilter narrows Count.
type NotificationFilter struct {
	UnreadOnly   bool
	CreatedAfter *time.Time
}

// NotificationRepository persistence port for the notification feed.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	// List newest first. limit <= 0 returns everything.
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Notification, error)
	Count(ctx context.Context, tenantID string, f NotificationFilter) (int64, error)
	// SetRead is idempotent; ErrNotFound when the id is not the tenant's.
	SetRead(ctx context.Context, tenantID, id string, read bool) error
	MarkAllRead(ctx context.Context, tenantID string) (int64, error)
	Delete(ctx context.Context, tenantID, id string) error
	DeleteAll(ctx context.Context, tenantID string) (int64, error)
}
