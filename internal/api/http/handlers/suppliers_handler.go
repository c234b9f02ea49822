package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supplier-service/internal/api/dto"
	"github.com/spec-kit/supplier-service/internal/service"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

// SuppliersHandler exposes supplier CRUD endpoints.
type SuppliersHandler struct {
	suppliers *service.SupplierService
}

// NewSuppliersHandler constructs handler.
func NewSuppliersHandler(suppliers *service.SupplierService) *SuppliersHandler {
	return &SuppliersHandler{suppliers: suppliers}
}

// List handles GET /suppliers.
func (h *SuppliersHandler) List(c *fiber.Ctx) error {
	suppliers, err := h.suppliers.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"suppliers": dto.NewSupplierViews(suppliers)})
}

// Get handles GET /suppliers/:id.
func (h *SuppliersHandler) Get(c *fiber.Ctx) error {
	supplier, err := h.suppliers.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"supplier": dto.NewSupplierView(supplier)})
}

// Create handles POST /suppliers.
func (h *SuppliersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	supplier, err := h.suppliers.Create(c.Context(), service.SupplierInput{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"supplier": dto.NewSupplierView(supplier)})
}

// Update handles PUT /suppliers/:id.
func (h *SuppliersHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	supplier, err := h.suppliers.Update(c.Context(), c.Params("id"), service.SupplierUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"supplier": dto.NewSupplierView(supplier)})
}

// Delete handles DELETE /suppliers/:id.
func (h *SuppliersHandler) Delete(c *fiber.Ctx) error {
	if err := h.suppliers.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
