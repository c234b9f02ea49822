package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/supplier-service/internal/domain"
	"github.com/spec-kit/supplier-service/internal/repository"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

// SupplierInput carries fields for creating a supplier.
type SupplierInput struct {
	Name        string
	Phone       string
	Address     *string
	Description *string
}

// SupplierUpdate carries optional fields for a partial update.
type SupplierUpdate struct {
	Name        *string
	Phone       *string
	Address     *string
	Description *string
}

// SupplierService orchestrates supplier CRUD.
type SupplierService struct {
	suppliers repository.SupplierRepository
}

// NewSupplierService builds the service.
func NewSupplierService(suppliers repository.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

// List returns all suppliers, newest first.
func (s *SupplierService) List(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return suppliers, nil
}

// Get returns one supplier by id.
func (s *SupplierService) Get(ctx context.Context, id string) (*domain.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("supplier", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return supplier, nil
}

// Create validates and persists a new supplier.
func (s *SupplierService) Create(ctx context.Context, in SupplierInput) (*domain.Supplier, error) {
	details := map[string]any{}
	if strings.TrimSpace(in.Name) == "" {
		details["name"] = "name is required"
	}
	if strings.TrimSpace(in.Phone) == "" {
		details["phone"] = "phone is required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid supplier data", details)
	}

	supplier := &domain.Supplier{
		Name:        in.Name,
		Phone:       in.Phone,
		Address:     in.Address,
		Description: in.Description,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return supplier, nil
}

// Update applies a partial update; nil fields are untouched.
func (s *SupplierService) Update(ctx context.Context, id string, upd SupplierUpdate) (*domain.Supplier, error) {
	supplier, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		if strings.TrimSpace(*upd.Name) == "" {
			return nil, apperrors.NewValidationError("invalid supplier data",
				map[string]any{"name": "name is required"})
		}
		supplier.Name = *upd.Name
	}
	if upd.Phone != nil {
		if strings.TrimSpace(*upd.Phone) == "" {
			return nil, apperrors.NewValidationError("invalid supplier data",
				map[string]any{"phone": "phone is required"})
		}
		supplier.Phone = *upd.Phone
	}
	if upd.Address != nil {
		supplier.Address = upd.Address
	}
	if upd.Description != nil {
		supplier.Description = upd.Description
	}

	if err := s.suppliers.Update(ctx, supplier); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("supplier", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return supplier, nil
}

// Delete removes a supplier; its products follow via the FK cascade.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("supplier", nil)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}
