package dto

import "math"

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// PageRequest page/limit pagination, 1-based.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// DefaultPage applies defaults when Page/Limit are missing or out of range.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	// Offset must stay representable.
	if maxPage := math.MaxInt/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
}

// Offset rows to skip for this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// MessageResponse success envelope with a message and optional count.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   *int64 `json:"count,omitempty"`
}

// ErrorResponse HTTP error body.
type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
