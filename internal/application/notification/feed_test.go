package notification_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/application/notification"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/internal/infrastructure/memory"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newFeed() (*notification.Feed, *clock) {
	c := &clock{t: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	return notification.NewFeed(memory.NewNotificationStore(), nil).WithClock(c.now), c
}

func TestFeed_CreateValidates(t *testing.T) {
	ctx := context.Background()
	feed, _ := newFeed()

	_, err := feed.Create(ctx, "t1", notification.Input{Title: "x"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = feed.Create(ctx, "t1", notification.Input{Title: "x", Message: "y", Type: "urgent"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	n, err := feed.Create(ctx, "t1", notification.Input{Title: "x", Message: "y"})
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationInfo, n.Type)
	assert.False(t, n.Read)
	assert.NotEmpty(t, n.ID)
}

func TestFeed_BillEvents(t *testing.T) {
	ctx := context.Background()
	feed, c := newFeed()
	b := &entity.Bill{ID: "abc", BillNumber: "KACHA-004", CustomerName: "Ravi", TotalAmount: decimal.RequireFromString("150.5")}

	feed.Welcome(ctx, "t1")
	c.t = c.t.Add(time.Second)
	feed.BillCreated(ctx, "t1", entity.StageKacha, b)

	out, err := feed.ListAll(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, out.Notifications, 2)

	created := out.Notifications[0]
	assert.Equal(t, "Kacha Bill Created", created.Title)
	assert.Equal(t, "Kacha bill KACHA-004 for Ravi has been created successfully.", created.Message)
	assert.Equal(t, entity.NotificationSuccess, created.Type)
	require.NotNil(t, created.ActionURL)
	assert.Equal(t, "/kacha-bills/#abc", *created.ActionURL)
	require.NotNil(t, created.Amount)
	assert.Equal(t, "150.50", *created.Amount)
	assert.Equal(t, "Just now", created.FormattedTime)

	welcome := out.Notifications[1]
	assert.Equal(t, "Welcome to Nexus Bills!", welcome.Title)
	assert.Nil(t, welcome.BillType)
	assert.EqualValues(t, 2, out.UnreadCount)
}

func TestFeed_MarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	feed, _ := newFeed()

	n, err := feed.Create(ctx, "t1", notification.Input{Title: "a", Message: "b"})
	require.NoError(t, err)

	require.NoError(t, feed.MarkRead(ctx, "t1", n.ID))
	require.NoError(t, feed.MarkRead(ctx, "t1", n.ID))
	unread, err := feed.UnreadCount(ctx, "t1")
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, feed.MarkUnread(ctx, "t1", n.ID))
	unread, err = feed.UnreadCount(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	assert.True(t, errors.Is(feed.MarkRead(ctx, "t2", n.ID), domain.ErrNotFound))
	assert.True(t, errors.Is(feed.Delete(ctx, "t2", n.ID), domain.ErrNotFound))
}

func TestFeed_ListPaginates(t *testing.T) {
	ctx := context.Background()
	feed, c := newFeed()
	for i := 0; i < 12; i++ {
		c.t = c.t.Add(time.Minute)
		_, err := feed.Create(ctx, "t1", notification.Input{Title: "n", Message: "m"})
		require.NoError(t, err)
	}

	page, err := feed.List(ctx, "t1", dto.PageRequest{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 5)
	assert.EqualValues(t, 12, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.NotNil(t, page.HasMore)
	assert.True(t, *page.HasMore)

	last, err := feed.List(ctx, "t1", dto.PageRequest{Page: 3, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, last.Notifications, 2)
	assert.False(t, *last.HasMore)

	recent, err := feed.Recent(ctx, "t1")
	require.NoError(t, err)
	assert.Len(t, recent.Notifications, notification.RecentLimit)
}

func TestFeed_ListHugePageIsEmpty(t *testing.T) {
	ctx := context.Background()
	feed, _ := newFeed()
	for i := 0; i < 3; i++ {
		_, err := feed.Create(ctx, "t1", notification.Input{Title: "n", Message: "m"})
		require.NoError(t, err)
	}

	out, err := feed.List(ctx, "t1", dto.PageRequest{Page: 1e17, Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, out.Notifications)
	assert.EqualValues(t, 3, out.TotalCount)
	require.NotNil(t, out.HasMore)
	assert.False(t, *out.HasMore)
	assert.Greater(t, out.CurrentPage, 1)
	assert.Equal(t, 1, out.TotalPages)
}

func TestPageRequest_OffsetNeverOverflows(t *testing.T) {
	p := dto.PageRequest{Page: math.MaxInt, Limit: 7}
	p.DefaultPage()
	assert.GreaterOrEqual(t, p.Offset(), 0)

	q := dto.PageRequest{Page: 3, Limit: 500}
	q.DefaultPage()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 200, q.Offset())
}

func TestFeed_BulkOperationsAndCheckNew(t *testing.T) {
	ctx := context.Background()
	feed, c := newFeed()

	_, err := feed.Create(ctx, "t1", notification.Input{Title: "old", Message: "m"})
	require.NoError(t, err)
	since := c.t
	c.t = c.t.Add(time.Minute)
	_, err = feed.Create(ctx, "t1", notification.Input{Title: "new", Message: "m"})
	require.NoError(t, err)
	_, err = feed.Create(ctx, "t2", notification.Input{Title: "other", Message: "m"})
	require.NoError(t, err)

	chk, err := feed.CheckNew(ctx, "t1", &since)
	require.NoError(t, err)
	assert.EqualValues(t, 1, chk.NewCount)
	assert.EqualValues(t, 2, chk.UnreadCount)
	assert.True(t, chk.HasNew)

	n, err := feed.MarkAllRead(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	chk, err = feed.CheckNew(ctx, "t1", nil)
	require.NoError(t, err)
	assert.False(t, chk.HasNew)

	n, err = feed.DeleteAll(ctx, "t1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	other, err := feed.ListAll(ctx, "t2")
	require.NoError(t, err)
	assert.Len(t, other.Notifications, 1)
}

type failingRepo struct{ repository.NotificationRepository }

func (failingRepo) Create(context.Context, *entity.Notification) error {
	return errors.New("store down")
}

func TestFeed_NotifyNeverFails(t *testing.T) {
	var buf bytes.Buffer
	feed := notification.NewFeed(failingRepo{}, logger.NewWithWriter(&buf))

	assert.NotPanics(t, func() {
		feed.BillDeleted(context.Background(), "t1", entity.StageDraft, &entity.Bill{BillNumber: "DRAFT-001"})
	})
	assert.Contains(t, buf.String(), "notification not stored")
	assert.Contains(t, buf.String(), "Draft Bill Deleted")
}
