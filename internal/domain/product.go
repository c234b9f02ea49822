package domain

import "time"

// Product belongs to a supplier and optionally carries a stored image.
type Product struct {
	ID           string
	SupplierID   string
	Name         string
	Description  *string
	Price        float64
	ImagePath    *string
	SupplierName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
