package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/db"
	"storefront/internal/models"
)

// SalesHandler handles sales record operations via JSON API.
type SalesHandler struct {
	db *db.DB
}

// NewSalesHandler creates a new API sales handler.
func NewSalesHandler(database *db.DB) *SalesHandler {
	return &SalesHandler{db: database}
}

// List returns every sales record, newest first.
func (h *SalesHandler) List(c fiber.Ctx) error {
	records, err := h.db.ListSalesRecords(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch sales records")
	}
	return jsonSuccess(c, records)
}

// Create adds a sales record.
func (h *SalesHandler) Create(c fiber.Ctx) error {
	var s models.SalesRecord
	if msg, ok := decodeBody(c, &s); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.db.CreateSalesRecord(c.Context(), &s); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to create sales record")
	}
	return jsonCreated(c, s)
}

// Update replaces a sales record's fields.
func (h *SalesHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid sales record id")
	}

	var s models.SalesRecord
	if msg, ok := decodeBody(c, &s); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	s.ID = id

	if err := h.db.UpdateSalesRecord(c.Context(), &s); err != nil {
		if errors.Is(err, db.ErrSalesRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "sales record not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update sales record")
	}
	return jsonSuccess(c, s)
}

// Delete removes a sales record.
func (h *SalesHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid sales record id")
	}

	if err := h.db.DeleteSalesRecord(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrSalesRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "sales record not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete sales record")
	}
	return jsonSuccess(c, fiber.Map{"message": "sales record deleted"})
}
