package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"storefront/internal/db"
	"storefront/internal/models"
	"storefront/internal/validation"
)

// ResponseHandler handles automated response operations via JSON API.
type ResponseHandler struct {
	db *db.DB
}

// NewResponseHandler creates a new API automated response handler.
func NewResponseHandler(database *db.DB) *ResponseHandler {
	return &ResponseHandler{db: database}
}

type responseRequest struct {
	Keywords     []string `json:"keywords"`
	ResponseText string   `json:"responseText" validate:"required"`
	IsDefault    bool     `json:"isDefault"`
}

// toModel normalizes the request. It returns a message for a 400 response
// when the request is unusable.
func (r *responseRequest) toModel() (*models.AutomatedResponse, string) {
	text := strings.TrimSpace(r.ResponseText)
	if text == "" {
		return nil, "responseText is required"
	}

	keywords := validation.NormalizeKeywords(r.Keywords)
	if valid, msg := validation.ValidateKeywords(keywords); !valid {
		return nil, msg
	}

	return &models.AutomatedResponse{
		Keywords:     keywords,
		ResponseText: text,
		IsDefault:    r.IsDefault,
	}, ""
}

// List returns every automated response in the order the resolver sees them.
func (h *ResponseHandler) List(c fiber.Ctx) error {
	responses, err := h.db.ListAutomatedResponses(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch responses")
	}
	return jsonSuccess(c, responses)
}

// Create adds an automated response. Marking it default clears the flag on
// every other response.
func (h *ResponseHandler) Create(c fiber.Ctx) error {
	var body responseRequest
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	r, msg := body.toModel()
	if r == nil {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.db.CreateAutomatedResponse(c.Context(), r); err != nil {
		if errors.Is(err, db.ErrDefaultConflict) {
			return jsonError(c, fiber.StatusConflict, "default response changed concurrently, retry")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to create response")
	}
	return jsonCreated(c, r)
}

// Update replaces an automated response.
func (h *ResponseHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid response id")
	}

	var body responseRequest
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	r, msg := body.toModel()
	if r == nil {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	r.ID = id

	if err := h.db.UpdateAutomatedResponse(c.Context(), r); err != nil {
		switch {
		case errors.Is(err, db.ErrResponseNotFound):
			return jsonError(c, fiber.StatusNotFound, "response not found")
		case errors.Is(err, db.ErrDefaultConflict):
			return jsonError(c, fiber.StatusConflict, "default response changed concurrently, retry")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update response")
	}
	return jsonSuccess(c, r)
}

// Delete removes an automated response.
func (h *ResponseHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid response id")
	}

	if err := h.db.DeleteAutomatedResponse(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrResponseNotFound) {
			return jsonError(c, fiber.StatusNotFound, "response not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete response")
	}
	return jsonSuccess(c, fiber.Map{"message": "response deleted"})
}
