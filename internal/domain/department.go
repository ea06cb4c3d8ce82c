package domain

import "time"

// Department represents an organizational unit owning categories and floors.
type Department struct {
	ID         string
	Name       string
	HeadUserID *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
