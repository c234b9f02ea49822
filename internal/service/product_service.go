package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/repository"
	"github.com/spec-kit/supplier-service/internal/upload"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

// ProductInput carries fields for creating a product.
type ProductInput struct {
	SupplierID  string
	Name        string
	Description *string
	Price       float64
	Image       *multipart.FileHeader
}

// ProductUpdate carries optional fields for a partial update.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *multipart.FileHeader
}

// ProductService orchestrates product CRUD and image lifecycle.
type ProductService struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	images    *upload.Manager
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, suppliers repository.SupplierRepository, images *upload.Manager) *ProductService {
	return &ProductService{products: products, suppliers: suppliers, images: images}
}

// List returns all products with their supplier names.
func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

// ListBySupplier returns one supplier's products.
func (s *ProductService) ListBySupplier(ctx context.Context, supplierID string) ([]*domain.Product, error) {
	products, err := s.products.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return products, nil
}

// Get returns one product by id.
func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return product, nil
}

// Create validates and persists a new product, storing its image first when
// one accompanies the request.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*domain.Product, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "name is required"
	}
	if in.Price <= 0 {
		details["price"] = "price must be greater than zero"
	}
	if in.SupplierID == "" {
		details["supplier_id"] = "supplier_id is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid product data", details)
	}

	if _, err := s.suppliers.GetByID(ctx, in.SupplierID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("supplier", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	product := &domain.Product{
		SupplierID:  in.SupplierID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
	}

	if in.Image != nil {
		path, err := s.images.StoreFile(in.Image, "product")
		if err != nil {
			return nil, err
		}
		product.ImagePath = &path
	}

	if err := s.products.Create(ctx, product); err != nil {
		if product.ImagePath != nil {
			s.images.RemoveFile(*product.ImagePath)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return product, nil
}

// Update applies a partial update. Image replacement stores the new file,
// persists the record, then removes the old file.
func (s *ProductService) Update(ctx context.Context, id string, upd ProductUpdate) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, apperrors.NewValidationError("invalid product data",
				map[string]any{"name": "name is required"})
		}
		product.Name = *upd.Name
	}
	if upd.Description != nil {
		product.Description = upd.Description
	}
	if upd.Price != nil {
		if *upd.Price <= 0 {
			return nil, apperrors.NewValidationError("invalid product data",
				map[string]any{"price": "price must be greater than zero"})
		}
		product.Price = *upd.Price
	}

	var oldImage string
	if upd.Image != nil {
		path, err := s.images.StoreFile(upd.Image, "product")
		if err != nil {
			return nil, err
		}
		if product.ImagePath != nil {
			oldImage = *product.ImagePath
		}
		product.ImagePath = &path
	}

	if err := s.products.Update(ctx, product); err != nil {
		if upd.Image != nil && product.ImagePath != nil {
			s.images.RemoveFile(*product.ImagePath)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if oldImage != "" {
		s.images.RemoveFile(oldImage)
	}
	return product, nil
}

// Delete removes a product and its stored image.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return apperrors.NewInternalError(err)
	}

	if product.ImagePath != nil {
		s.images.RemoveFile(*product.ImagePath)
	}
	return nil
}
