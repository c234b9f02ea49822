package dto

import (
	"time"

	"github.com/spec-kit/supplier-service/internal/domain"
)

// CreateSupplierRequest payload for new suppliers.
type CreateSupplierRequest struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Phone       string  `json:"phone" form:"phone" validate:"required"`
	Address     *string `json:"address" form:"address"`
	Description *string `json:"description" form:"description"`
}

// UpdateSupplierRequest payload for partial supplier updates.
type UpdateSupplierRequest struct {
	Name        *string `json:"name" form:"name"`
	Phone       *string `json:"phone" form:"phone"`
	Address     *string `json:"address" form:"address"`
	Description *string `json:"description" form:"description"`
}

// SupplierView is the outward representation of a supplier.
type SupplierView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     *string   `json:"address"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSupplierView maps a domain supplier.
func NewSupplierView(supplier *domain.Supplier) SupplierView {
	return SupplierView{
		ID:          supplier.ID,
		Name:        supplier.Name,
		Phone:       supplier.Phone,
		Address:     supplier.Address,
		Description: supplier.Description,
		CreatedAt:   supplier.CreatedAt,
	}
}

// NewSupplierViews maps a slice of suppliers.
func NewSupplierViews(suppliers []*domain.Supplier) []SupplierView {
	views := make([]SupplierView, 0, len(suppliers))
	for _, supplier := range suppliers {
		views = append(views, NewSupplierView(supplier))
	}
	return views
}
