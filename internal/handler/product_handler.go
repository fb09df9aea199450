package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/pkg/validator"
)

// ProductHandler serves the menu. Reads are open to any authenticated role;
// edits are admin only. Committed orders are untouched by product edits.
type ProductHandler struct {
	productRepo repository.ProductRepository
}

func NewProductHandler(productRepo repository.ProductRepository) *ProductHandler {
	return &ProductHandler{productRepo: productRepo}
}

// GetProducts lists the menu
// GET /api/v1/products
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch products"})
	}
	return c.JSON(products)
}

// CreateProduct adds a menu item
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&product); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field " + errs[0].FailedField})
	}
	if product.ID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "id is required"})
	}
	if product.Price.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"error": "price cannot be negative"})
	}

	if err := h.productRepo.Create(&product); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(201).JSON(product)
}

// UpdateProduct edits a menu item
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	existing, err := h.productRepo.FindByID(c.Params("id"))
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Price.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"error": "price cannot be negative"})
	}

	existing.Name = req.Name
	existing.Price = req.Price
	existing.Category = req.Category
	existing.ImageURL = req.ImageURL

	if err := h.productRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(existing)
}

// DeleteProduct removes a menu item
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productRepo.Delete(c.Params("id")); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
