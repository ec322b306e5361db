package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Notification categories.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification one entry in a tenant's feed.
type Notification struct {
	ID           string
	TenantID     string
	Title        string
	Message      string
	Type         string
	Read         bool
	ActionURL    string
	BillType     string
	CustomerName string
	Amount       decimal.NullDecimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormattedTime renders the age of the notification relative to now.
func (n *Notification) FormattedTime(now time.Time) string {
	diff := now.Sub(n.CreatedAt)
	if diff < 0 {
		diff = 0
	}
	days := int(diff.Hours() / 24)
	switch {
	case days == 0 && diff < time.Minute:
		return "Just now"
	case days == 0 && diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case days == 0:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	default:
		return n.CreatedAt.Format("Jan 02, 2006")
	}
}
