// Package notification is the per-tenant notification feed: creation helpers
// for bill events plus the read, mark and delete operations behind the API.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// RecentLimit entries returned by the badge endpoint.
const RecentLimit = 5

// Input fields of a new notification. Type defaults to info.
type Input struct {
	Title        string
	Message      string
	Type         string
	ActionURL    string
	BillType     string
	CustomerName string
	Amount       decimal.NullDecimal
}

// Feed reads and writes the notification feed of a tenant.
type Feed struct {
	repo  repository.NotificationRepository
	log   *logger.Logger
	now   func() time.Time
	title cases.Caser
}

// NewFeed builds the feed over its persistence port.
func NewFeed(repo repository.NotificationRepository, log *logger.Logger) *Feed {
	if log == nil {
		log = logger.NewNop()
	}
	return &Feed{
		repo:  repo,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
		title: cases.Title(language.English),
	}
}

// WithClock replaces the time source. Used by tests.
func (f *Feed) WithClock(now func() time.Time) *Feed {
	f.now = now
	return f
}

// Create stores a new unread notification.
func (f *Feed) Create(ctx context.Context, tenantID string, in Input) (*entity.Notification, error) {
	if tenantID == "" || in.Title == "" || in.Message == "" {
		return nil, fmt.Errorf("%w: tenant, title and message are required", domain.ErrInvalidInput)
	}
	typ := in.Type
	switch typ {
	case entity.NotificationInfo, entity.NotificationSuccess, entity.NotificationWarning, entity.NotificationError:
	case "":
		typ = entity.NotificationInfo
	default:
		return nil, fmt.Errorf("%w: unknown notification type %q", domain.ErrInvalidInput, typ)
	}
	t := f.now()
	n := &entity.Notification{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Title:        in.Title,
		Message:      in.Message,
		Type:         typ,
		ActionURL:    in.ActionURL,
		BillType:     in.BillType,
		CustomerName: in.CustomerName,
		Amount:       in.Amount,
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if err := f.repo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("notification: create: %w", err)
	}
	return n, nil
}

// notify is Create for side effects of other operations: failures are logged, never returned.
func (f *Feed) notify(ctx context.Context, tenantID string, in Input) {
	if _, err := f.Create(ctx, tenantID, in); err != nil {
		f.log.Warn().Err(err).Str("tenant_id", tenantID).Str("title", in.Title).Msg("notification not stored")
	}
}

// Welcome greets a freshly registered account.
func (f *Feed) Welcome(ctx context.Context, tenantID string) {
	f.notify(ctx, tenantID, Input{
		Title:     "Welcome to Nexus Bills!",
		Message:   "Get started by creating your first bill.",
		Type:      entity.NotificationInfo,
		ActionURL: "/kacha-bill/",
	})
}

// BillCreated records a new bill in stage.
func (f *Feed) BillCreated(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) {
	name := f.title.String(string(stage))
	f.notify(ctx, tenantID, Input{
		Title:        name + " Bill Created",
		Message:      fmt.Sprintf("%s bill %s for %s has been created successfully.", name, b.BillNumber, b.CustomerName),
		Type:         entity.NotificationSuccess,
		ActionURL:    fmt.Sprintf("/%s-bills/#%s", stage, b.ID),
		BillType:     string(stage),
		CustomerName: b.CustomerName,
		Amount:       decimal.NewNullDecimal(b.TotalAmount),
	})
}

// BillUpdated records an in-place edit.
func (f *Feed) BillUpdated(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) {
	name := f.title.String(string(stage))
	f.notify(ctx, tenantID, Input{
		Title:        name + " Bill Updated",
		Message:      fmt.Sprintf("%s bill %s for %s has been updated.", name, b.BillNumber, b.CustomerName),
		Type:         entity.NotificationInfo,
		ActionURL:    fmt.Sprintf("/%s-bills/", stage),
		BillType:     string(stage),
		CustomerName: b.CustomerName,
	})
}

// BillDeleted records a deletion.
func (f *Feed) BillDeleted(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) {
	name := f.title.String(string(stage))
	f.notify(ctx, tenantID, Input{
		Title:     name + " Bill Deleted",
		Message:   fmt.Sprintf("%s bill %s has been deleted.", name, b.BillNumber),
		Type:      entity.NotificationWarning,
		ActionURL: fmt.Sprintf("/%s-bills/", stage),
		BillType:  string(stage),
	})
}

// BillConverted records a stage conversion; number is the source bill number.
func (f *Feed) BillConverted(ctx context.Context, tenantID string, from, to entity.Stage, number, customer string) {
	f.notify(ctx, tenantID, Input{
		Title:        "Bill Converted Successfully",
		Message:      fmt.Sprintf("%s bill %s for %s has been converted to %s bill.", f.title.String(string(from)), number, customer, to),
		Type:         entity.NotificationSuccess,
		ActionURL:    fmt.Sprintf("/%s-bills/", to),
		BillType:     string(to),
		CustomerName: customer,
	})
}

// List returns one page, newest first, with feed counters.
func (f *Feed) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	items, err := f.repo.List(ctx, tenantID, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("notification: list: %w", err)
	}
	out, err := f.envelope(ctx, tenantID, items)
	if err != nil {
		return nil, err
	}
	totalPages := int((out.TotalCount + int64(page.Limit) - 1) / int64(page.Limit))
	hasMore := int64(page.Offset()+len(items)) < out.TotalCount
	out.HasMore = &hasMore
	out.CurrentPage = page.Page
	out.TotalPages = totalPages
	return out, nil
}

// ListAll returns the whole feed, newest first.
func (f *Feed) ListAll(ctx context.Context, tenantID string) (*dto.NotificationListResponse, error) {
	items, err := f.repo.List(ctx, tenantID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("notification: list all: %w", err)
	}
	return f.envelope(ctx, tenantID, items)
}

// Recent returns the newest RecentLimit entries for the badge.
func (f *Feed) Recent(ctx context.Context, tenantID string) (*dto.NotificationListResponse, error) {
	items, err := f.repo.List(ctx, tenantID, RecentLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("notification: recent: %w", err)
	}
	return f.envelope(ctx, tenantID, items)
}

func (f *Feed) envelope(ctx context.Context, tenantID string, items []*entity.Notification) (*dto.NotificationListResponse, error) {
	unread, err := f.UnreadCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	total, err := f.repo.Count(ctx, tenantID, repository.NotificationFilter{})
	if err != nil {
		return nil, fmt.Errorf("notification: count: %w", err)
	}
	now := f.now()
	list := make([]dto.NotificationDTO, 0, len(items))
	for _, n := range items {
		list = append(list, dto.NotificationFromEntity(n, now))
	}
	return &dto.NotificationListResponse{
		Status:        dto.StatusSuccess,
		Notifications: list,
		UnreadCount:   unread,
		TotalCount:    total,
	}, nil
}

// UnreadCount number of unread notifications.
func (f *Feed) UnreadCount(ctx context.Context, tenantID string) (int64, error) {
	n, err := f.repo.Count(ctx, tenantID, repository.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return 0, fmt.Errorf("notification: unread count: %w", err)
	}
	return n, nil
}

// MarkRead flags one notification as read. Marking twice is not an error.
func (f *Feed) MarkRead(ctx context.Context, tenantID, id string) error {
	return f.repo.SetRead(ctx, tenantID, id, true)
}

// MarkUnread flags one notification as unread.
func (f *Feed) MarkUnread(ctx context.Context, tenantID, id string) error {
	return f.repo.SetRead(ctx, tenantID, id, false)
}

// MarkAllRead returns how many notifications changed.
func (f *Feed) MarkAllRead(ctx context.Context, tenantID string) (int64, error) {
	return f.repo.MarkAllRead(ctx, tenantID)
}

// Delete removes one notification.
func (f *Feed) Delete(ctx context.Context, tenantID, id string) error {
	return f.repo.Delete(ctx, tenantID, id)
}

// DeleteAll clears the feed and returns how many entries were removed.
func (f *Feed) DeleteAll(ctx context.Context, tenantID string) (int64, error) {
	return f.repo.DeleteAll(ctx, tenantID)
}

// CheckNew counts unread notifications created after since. A nil since
// reports every unread notification as new.
func (f *Feed) CheckNew(ctx context.Context, tenantID string, since *time.Time) (*dto.CheckNewResponse, error) {
	unread, err := f.UnreadCount(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	fresh := unread
	if since != nil {
		fresh, err = f.repo.Count(ctx, tenantID, repository.NotificationFilter{UnreadOnly: true, CreatedAfter: since})
		if err != nil {
			return nil, fmt.Errorf("notification: check new: %w", err)
		}
	}
	return &dto.CheckNewResponse{
		Status:      dto.StatusSuccess,
		NewCount:    fresh,
		UnreadCount: unread,
		HasNew:      fresh > 0,
	}, nil
}
