package domain

import "time"

// Pagination carries paging params and totals.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total,omitempty"`
}

// Offset returns the SQL offset for the page, defaulting to the first page of 50.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

func (p Pagination) Limit() int {
	switch {
	case p.PageSize <= 0:
		return 50
	case p.PageSize > 500:
		return 500
	default:
		return p.PageSize
	}
}

// DateRange is an inclusive [From, To] filter; zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// RequestContext carries authenticated user info when available.
type RequestContext struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role"`
}

// ListFilter narrows list queries; zero fields are ignored.
type ListFilter struct {
	Pagination
	Search   string
	TripID   int64
	ClientID int64
	Status   string
	Kind     string
	Range    DateRange
}
