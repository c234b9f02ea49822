package dto

import (
	"time"

	"github.com/spec-kit/supplier-service/internal/domain"
)

// CreateProductRequest payload for new products. The image file travels as
// the multipart field "image".
type CreateProductRequest struct {
	SupplierID  string  `json:"supplier_id" form:"supplier_id" validate:"required"`
	Name        string  `json:"name" form:"name" validate:"required"`
	Description *string `json:"description" form:"description"`
	Price       float64 `json:"price" form:"price" validate:"required,gt=0"`
}

// UpdateProductRequest payload for partial product updates.
type UpdateProductRequest struct {
	Name        *string  `json:"name" form:"name"`
	Description *string  `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
}

// ProductView is the outward representation of a product.
type ProductView struct {
	ID           string    `json:"id"`
	SupplierID   string    `json:"supplier_id"`
	SupplierName string    `json:"supplier_name,omitempty"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Price        float64   `json:"price"`
	Image        *string   `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProductView maps a domain product.
func NewProductView(product *domain.Product) ProductView {
	return ProductView{
		ID:           product.ID,
		SupplierID:   product.SupplierID,
		SupplierName: product.SupplierName,
		Name:         product.Name,
		Description:  product.Description,
		Price:        product.Price,
		Image:        product.ImagePath,
		CreatedAt:    product.CreatedAt,
	}
}

// NewProductViews maps a slice of products.
func NewProductViews(products []*domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, NewProductView(product))
	}
	return views
}
