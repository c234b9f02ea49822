package domain

import "time"

// Supplier is a vendor that products are sourced from.
type Supplier struct {
	ID          string
	Name        string
	Phone       string
	Address     *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
