package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"storefront/internal/autorespond"
	"storefront/internal/db"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// Query list paging defaults.
const (
	defaultQueryPageSize = 5
	maxQueryPageSize     = 100
)

// QueryHandler handles customer query operations via JSON API.
type QueryHandler struct {
	db          *db.DB
	autoRespond *autorespond.Service
}

// NewQueryHandler creates a new API query handler.
func NewQueryHandler(database *db.DB, autoRespond *autorespond.Service) *QueryHandler {
	return &QueryHandler{db: database, autoRespond: autoRespond}
}

// Submit records a new customer query. No account is needed.
func (h *QueryHandler) Submit(c fiber.Ctx) error {
	var body struct {
		Name    string `json:"name" validate:"required"`
		Email   string `json:"email" validate:"required,email"`
		Message string `json:"message" validate:"required"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if strings.TrimSpace(body.Message) == "" {
		return jsonError(c, fiber.StatusBadRequest, "message is required")
	}

	q := &models.Query{
		Name:    strings.TrimSpace(body.Name),
		Email:   strings.TrimSpace(body.Email),
		Message: body.Message,
	}
	if err := h.db.CreateQuery(c.Context(), q); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to submit query")
	}

	return jsonCreated(c, q)
}

// List returns one page of queries, newest first.
func (h *QueryHandler) List(c fiber.Ctx) error {
	page, limit, ok := pageParams(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "page and limit must be positive integers")
	}

	queries, total, err := h.db.ListQueries(c.Context(), limit, (page-1)*limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch queries")
	}

	return jsonSuccess(c, models.QueryListResponse{Queries: queries, TotalCount: total})
}

// Update applies a partial update to a query's resolution fields. Setting
// status to resolved is a manual resolution; a resolved query cannot be reopened.
func (h *QueryHandler) Update(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid query id")
	}

	var body models.QueryUpdate
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if body.IsEmpty() {
		return jsonError(c, fiber.StatusBadRequest, "no fields to update")
	}
	if body.Status != nil && *body.Status != models.QueryStatusOpen && *body.Status != models.QueryStatusResolved {
		return jsonError(c, fiber.StatusBadRequest, "status must be open or resolved")
	}
	if body.AutoResolved != nil && *body.AutoResolved {
		return jsonError(c, fiber.StatusBadRequest, "autoResolved is set by the auto-responder only")
	}

	if body.Status != nil && *body.Status == models.QueryStatusResolved {
		return h.resolveFromUpdate(c, id, body)
	}

	q, err := h.db.UpdateQuery(c.Context(), id, body)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrQueryNotFound):
			return jsonError(c, fiber.StatusNotFound, "query not found")
		case errors.Is(err, db.ErrQueryAlreadyResolved):
			return jsonError(c, fiber.StatusConflict, "query already resolved")
		case errors.Is(err, db.ErrQueryStatusChange):
			return jsonError(c, fiber.StatusConflict, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update query")
	}

	return jsonSuccess(c, q)
}

func (h *QueryHandler) resolveFromUpdate(c fiber.Ctx, id uuid.UUID, body models.QueryUpdate) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response := body.AutomatedResponse
	if response != nil && strings.TrimSpace(*response) == "" {
		response = nil
	}

	q, err := h.autoRespond.ResolveManually(c.Context(), id, user.Name, response)
	if err != nil {
		return resolveError(c, err)
	}
	return jsonSuccess(c, q)
}

// Resolve marks a query resolved by the signed-in staff member.
func (h *QueryHandler) Resolve(c fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid query id")
	}

	var body struct {
		Response *string `json:"response"`
	}
	if len(c.Body()) > 0 {
		if msg, ok := decodeBody(c, &body); !ok {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}
	if body.Response != nil && strings.TrimSpace(*body.Response) == "" {
		body.Response = nil
	}

	q, err := h.autoRespond.ResolveManually(c.Context(), id, user.Name, body.Response)
	if err != nil {
		return resolveError(c, err)
	}

	return jsonSuccess(c, q)
}

// Delete removes a query.
func (h *QueryHandler) Delete(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid query id")
	}

	if err := h.db.DeleteQuery(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrQueryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "query not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete query")
	}

	return jsonSuccess(c, fiber.Map{"message": "query deleted"})
}

// AutoRespond answers one query with the best automated response.
func (h *QueryHandler) AutoRespond(c fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid query id")
	}

	q, _, err := h.autoRespond.ResolveQuery(c.Context(), id)
	if err != nil {
		return resolveError(c, err)
	}

	return jsonSuccess(c, q)
}

// AutoRespondAllPending answers every query that is not yet resolved.
func (h *QueryHandler) AutoRespondAllPending(c fiber.Ctx) error {
	batch, err := h.autoRespond.ResolveAllPending(c.Context())
	if err != nil && batch == nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to process pending queries")
	}
	return jsonSuccess(c, batch)
}

// Preview shows which response a message would receive without saving anything.
func (h *QueryHandler) Preview(c fiber.Ctx) error {
	var body struct {
		Message string `json:"message" validate:"required"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	result, err := h.autoRespond.Preview(c.Context(), body.Message)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to load responses")
	}

	return jsonSuccess(c, models.MatchPreviewResponse{
		ResponseText: result.ResponseText,
		ResponseID:   result.ResponseID,
		Source:       string(result.Source),
		Score:        result.Score,
		Matched:      result.Matched(),
	})
}

func resolveError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, db.ErrQueryNotFound):
		return jsonError(c, fiber.StatusNotFound, "query not found")
	case errors.Is(err, db.ErrQueryAlreadyResolved):
		return jsonError(c, fiber.StatusConflict, "query already resolved")
	}
	return jsonError(c, fiber.StatusInternalServerError, "failed to resolve query")
}

// pageParams reads page (1-based) and limit from the query string.
func pageParams(c fiber.Ctx) (page, limit int, ok bool) {
	page, limit = 1, defaultQueryPageSize

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		limit = min(n, maxQueryPageSize)
	}
	return page, limit, true
}
