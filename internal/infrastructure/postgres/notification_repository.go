package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo the notification feed on PostgreSQL.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository accepts the pool or a transaction.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	const query = `
		INSERT INTO notifications (id, tenant_id, title, message, type, read,
		                           action_url, bill_type, customer_name, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		n.ID, n.TenantID, n.Title, n.Message, n.Type, n.Read,
		nullIfEmpty(n.ActionURL), nullIfEmpty(n.BillType), nullIfEmpty(n.CustomerName), n.Amount,
		n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Notification, error) {
	query := `
		SELECT id, tenant_id, title, message, type, read,
		       COALESCE(action_url, ''), COALESCE(bill_type, ''), COALESCE(customer_name, ''),
		       amount, created_at, updated_at
		FROM notifications
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC`
	args := []any{tenantID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, max(offset, 0))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list notifications: %w", err)
	}
	defer rows.Close()

	var out []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(
			&n.ID, &n.TenantID, &n.Title, &n.Message, &n.Type, &n.Read,
			&n.ActionURL, &n.BillType, &n.CustomerName,
			&n.Amount, &n.CreatedAt, &n.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) Count(ctx context.Context, tenantID string, f repository.NotificationFilter) (int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT COUNT(*) FROM notifications WHERE tenant_id = $1`)
	args := []any{tenantID}
	if f.UnreadOnly {
		sb.WriteString(` AND NOT read`)
	}
	if f.CreatedAfter != nil {
		args = append(args, *f.CreatedAfter)
		fmt.Fprintf(&sb, ` AND created_at > $%d`, len(args))
	}

	var n int64
	if err := r.q.QueryRow(ctx, sb.String(), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count notifications: %w", err)
	}
	return n, nil
}

func (r *NotificationRepo) SetRead(ctx context.Context, tenantID, id string, read bool) error {
	const query = `
		UPDATE notifications
		SET read = $3, updated_at = CASE WHEN read = $3 THEN updated_at ELSE now() END
		WHERE tenant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, tenantID, id, read)
	if err != nil {
		return fmt.Errorf("postgres: set notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, tenantID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE notifications SET read = TRUE, updated_at = now() WHERE tenant_id = $1 AND NOT read`,
		tenantID)
	if err != nil {
		return 0, fmt.Errorf("postgres: mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepo) Delete(ctx context.Context, tenantID, id string) error {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM notifications WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("postgres: delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) DeleteAll(ctx context.Context, tenantID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE tenant_id = $1`, tenantID)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}
