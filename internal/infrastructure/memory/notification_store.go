package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationStore)(nil)

// NotificationStore in-memory notification feed.
type NotificationStore struct {
	mu    sync.RWMutex
	seq   int64
	items []notificationRecord
}

type notificationRecord struct {
	seq int64
	n   *entity.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

func (s *NotificationStore) Create(_ context.Context, n *entity.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *n
	s.seq++
	s.items = append(s.items, notificationRecord{seq: s.seq, n: &c})
	return nil
}

func (s *NotificationStore) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []notificationRecord
	for _, r := range s.items {
		if r.n.TenantID == tenantID {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].n.CreatedAt, recs[j].n.CreatedAt
		if a.Equal(b) {
			return recs[i].seq > recs[j].seq
		}
		return a.After(b)
	})

	offset = max(0, min(offset, len(recs)))
	recs = recs[offset:]
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	out := make([]*entity.Notification, len(recs))
	for i, r := range recs {
		c := *r.n
		out[i] = &c
	}
	return out, nil
}

func (s *NotificationStore) Count(_ context.Context, tenantID string, f repository.NotificationFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.items {
		if r.n.TenantID != tenantID {
			continue
		}
		if f.UnreadOnly && r.n.Read {
			continue
		}
		if f.CreatedAfter != nil && !r.n.CreatedAt.After(*f.CreatedAfter) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *NotificationStore) SetRead(_ context.Context, tenantID, id string, read bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.items {
		if r.n.ID == id && r.n.TenantID == tenantID {
			r.n.Read = read
			r.n.UpdatedAt = now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *NotificationStore) MarkAllRead(_ context.Context, tenantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, r := range s.items {
		if r.n.TenantID == tenantID && !r.n.Read {
			r.n.Read = true
			r.n.UpdatedAt = now()
			n++
		}
	}
	return n, nil
}

func (s *NotificationStore) Delete(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.items {
		if r.n.ID == id && r.n.TenantID == tenantID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *NotificationStore) DeleteAll(_ context.Context, tenantID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0:0]
	var n int64
	for _, r := range s.items {
		if r.n.TenantID == tenantID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	s.items = kept
	return n, nil
}
