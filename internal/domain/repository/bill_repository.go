package repository

import (
	"context"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// ListOptions narrows a bill listing. Zero value lists everything, newest first.
type ListOptions struct {
	DateFrom string // inclusive billDate lower bound, YYYY-MM-DD
	Limit    int
}

// BillRepository persists bills in one collection per stage.
// Every method is scoped by tenant; there is no unscoped variant.
type BillRepository interface {
	// Insert stores b in the stage collection and returns the new id.
	Insert(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) (string, error)
	// Replace overwrites the bill (b.ID, tenantID). ErrNotFound when no such bill.
	Replace(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) error
	// Get returns ErrNotFound when the id is unknown or owned by another tenant.
	Get(ctx context.Context, tenantID string, stage entity.Stage, id string) (*entity.Bill, error)
	// List returns bills newest first.
	List(ctx context.Context, tenantID string, stage entity.Stage, opts ListOptions) ([]*entity.Bill, error)
	// Delete returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, tenantID string, stage entity.Stage, id string) error
	// Move inserts target into the `to` collection and deletes sourceID from
	// `from` as one unit: either both happen or neither does.
	Move(ctx context.Context, tenantID string, from, to entity.Stage, sourceID string, target *entity.Bill) (string, error)
}

// SequenceRepository hands out per-tenant, per-bill-type counters.
type SequenceRepository interface {
	// Next atomically increments the counter (creating it at 0 first) and
	// returns the post-increment value.
	Next(ctx context.Context, tenantID, billType string) (int64, error)
}
