package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supplier-service/internal/api/dto"
	"github.com/spec-kit/supplier-service/internal/service"
	apperrors "github.com/spec-kit/supplier-service/pkg/util"
)

// ProductsHandler exposes product CRUD endpoints.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(products *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: products}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": dto.NewProductViews(products)})
}

// ListBySupplier handles GET /products/supplier/:supplierId.
func (h *ProductsHandler) ListBySupplier(c *fiber.Ctx) error {
	products, err := h.products.ListBySupplier(c.Context(), c.Params("supplierId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": dto.NewProductViews(products)})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.products.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"product": dto.NewProductView(product)})
}

// Create handles POST /products. Accepts JSON or multipart; the image file
// travels as the multipart field "image".
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	in := service.ProductInput{
		SupplierID:  req.SupplierID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if fh, err := c.FormFile("image"); err == nil {
		in.Image = fh
	}

	product, err := h.products.Create(c.Context(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"product": dto.NewProductView(product)})
}

// Update handles PUT /products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	upd := service.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if fh, err := c.FormFile("image"); err == nil {
		upd.Image = fh
	}

	product, err := h.products.Update(c.Context(), c.Params("id"), upd)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"product": dto.NewProductView(product)})
}

// Delete handles DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.products.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}
