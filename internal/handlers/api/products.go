package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/db"
	"storefront/internal/models"
)

// ProductHandler handles product catalogue operations via JSON API.
type ProductHandler struct {
	db *db.DB
}

// NewProductHandler creates a new API product handler.
func NewProductHandler(database *db.DB) *ProductHandler {
	return &ProductHandler{db: database}
}

// List returns every product.
func (h *ProductHandler) List(c fiber.Ctx) error {
	products, err := h.db.ListProducts(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch products")
	}
	return jsonSuccess(c, products)
}

// Create adds a product.
func (h *ProductHandler) Create(c fiber.Ctx) error {
	var p models.Product
	if msg, ok := decodeBody(c, &p); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	p.Name = strings.TrimSpace(p.Name)

	if err := h.db.CreateProduct(c.Context(), &p); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create product")
	}
	return jsonCreated(c, p)
}

// Update replaces a product's fields.
func (h *ProductHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	var p models.Product
	if msg, ok := decodeBody(c, &p); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)

	if err := h.db.UpdateProduct(c.Context(), &p); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update product")
	}
	return jsonSuccess(c, p)
}

// Delete removes a product. Cart lines for it are removed with it.
func (h *ProductHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	if err := h.db.DeleteProduct(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete product")
	}
	return jsonSuccess(c, fiber.Map{"message": "product deleted"})
}
