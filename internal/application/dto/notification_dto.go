package dto

import "time"

// NotificationDTO one feed entry.
type NotificationDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	Read          bool      `json:"read"`
	ActionURL     *string   `json:"action_url"`
	BillType      *string   `json:"bill_type"`
	CustomerName  *string   `json:"customer_name"`
	Amount        *string   `json:"amount"`
	FormattedTime string    `json:"formatted_time"`
}

// NotificationListResponse feed page. Pagination fields are set only on paged listings.
type NotificationListResponse struct {
	Status        string            `json:"status"`
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	TotalCount    int64             `json:"total_count"`
	HasMore       *bool             `json:"has_more,omitempty"`
	CurrentPage   int               `json:"current_page,omitempty"`
	TotalPages    int               `json:"total_pages,omitempty"`
}

// CheckNewResponse body of GET /api/notifications/check-new.
type CheckNewResponse struct {
	Status      string `json:"status"`
	NewCount    int64  `json:"new_count"`
	UnreadCount int64  `json:"unread_count"`
	HasNew      bool   `json:"has_new"`
}
