package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"storefront/internal/db"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// CartHandler handles shopping cart operations via JSON API. Customers may
// only touch their own cart; admin and sales staff may touch any.
type CartHandler struct {
	db *db.DB
}

// NewCartHandler creates a new API cart handler.
func NewCartHandler(database *db.DB) *CartHandler {
	return &CartHandler{db: database}
}

type cartLine struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1"`
}

// cartOwner returns the user whose cart is addressed: requested when set,
// otherwise the caller. ok is false after an error response was written.
func cartOwner(c fiber.Ctx, requested *uuid.UUID) (owner uuid.UUID, ok bool, err error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return uuid.Nil, false, jsonError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	owner = user.ID
	if requested != nil && *requested != uuid.Nil {
		owner = *requested
	}
	if !user.CanAccessCart(owner) {
		return uuid.Nil, false, jsonError(c, fiber.StatusForbidden, "you do not have access to this cart")
	}
	return owner, true, nil
}

// Add puts a product in the cart, adding to the quantity of an existing line.
func (h *CartHandler) Add(c fiber.Ctx) error {
	var body struct {
		UserID *uuid.UUID `json:"userId"`
		cartLine
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	owner, ok, err := cartOwner(c, body.UserID)
	if !ok {
		return err
	}

	item := &models.CartItem{UserID: owner, ProductID: body.ProductID, Quantity: max(body.Quantity, 1)}
	created, err := h.db.AddCartItem(c.Context(), item)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to add to cart")
	}

	if created {
		return jsonCreated(c, item)
	}
	return jsonSuccess(c, item)
}

// List returns a user's cart.
func (h *CartHandler) List(c fiber.Ctx) error {
	userID, ok := paramID(c, "userId")
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "invalid user id")
	}

	owner, ok, err := cartOwner(c, &userID)
	if !ok {
		return err
	}

	items, err := h.db.ListCartItems(c.Context(), owner)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch cart")
	}
	return jsonSuccess(c, items)
}

// Update sets the quantity of a cart line.
func (h *CartHandler) Update(c fiber.Ctx) error {
	item, ok, err := h.ownedItem(c)
	if !ok {
		return err
	}

	var body struct {
		Quantity int `json:"quantity" validate:"required,gte=1"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	updated, err := h.db.UpdateCartItemQuantity(c.Context(), item.ID, body.Quantity)
	if err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return jsonError(c, fiber.StatusNotFound, "cart item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to update cart item")
	}
	return jsonSuccess(c, updated)
}

// Delete removes a cart line.
func (h *CartHandler) Delete(c fiber.Ctx) error {
	item, ok, err := h.ownedItem(c)
	if !ok {
		return err
	}

	if err := h.db.DeleteCartItem(c.Context(), item.ID); err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return jsonError(c, fiber.StatusNotFound, "cart item not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete cart item")
	}
	return jsonSuccess(c, fiber.Map{"message": "cart item removed"})
}

// Sync replaces the whole cart with the given lines.
func (h *CartHandler) Sync(c fiber.Ctx) error {
	var body struct {
		UserID *uuid.UUID  `json:"userId"`
		Items  []cartLine `json:"items" validate:"dive"`
	}
	if msg, ok := decodeBody(c, &body); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	owner, ok, err := cartOwner(c, body.UserID)
	if !ok {
		return err
	}

	items := make([]models.CartItem, 0, len(body.Items))
	for _, line := range body.Items {
		items = append(items, models.CartItem{ProductID: line.ProductID, Quantity: max(line.Quantity, 1)})
	}

	if err := h.db.SyncCart(c.Context(), owner, items); err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to sync cart")
	}

	synced, err := h.db.ListCartItems(c.Context(), owner)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch cart")
	}
	return jsonSuccess(c, synced)
}

// Checkout turns the cart into a sales record and empties it.
func (h *CartHandler) Checkout(c fiber.Ctx) error {
	var body struct {
		UserID *uuid.UUID `json:"userId"`
	}
	if len(c.Body()) > 0 {
		if msg, ok := decodeBody(c, &body); !ok {
			return jsonError(c, fiber.StatusBadRequest, msg)
		}
	}

	owner, ok, err := cartOwner(c, body.UserID)
	if !ok {
		return err
	}

	customer := middleware.CurrentUser(c)
	if customer.ID != owner {
		customer, err = h.db.GetUserByID(c.Context(), owner)
		if err != nil {
			if errors.Is(err, db.ErrUserNotFound) {
				return jsonError(c, fiber.StatusNotFound, "user not found")
			}
			return jsonError(c, fiber.StatusInternalServerError, "failed to fetch user")
		}
	}

	result, err := h.db.Checkout(c.Context(), owner, customer.Name, time.Now())
	if err != nil {
		if errors.Is(err, db.ErrCartEmpty) {
			return jsonError(c, fiber.StatusBadRequest, "cart is empty")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to place order")
	}
	return jsonCreated(c, result)
}

// ownedItem loads the cart line named by the :id parameter and checks the
// caller may touch it. ok is false after an error response was written.
func (h *CartHandler) ownedItem(c fiber.Ctx) (*models.CartItem, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false, jsonError(c, fiber.StatusBadRequest, "invalid cart item id")
	}

	item, err := h.db.GetCartItemByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrCartItemNotFound) {
			return nil, false, jsonError(c, fiber.StatusNotFound, "cart item not found")
		}
		return nil, false, jsonError(c, fiber.StatusInternalServerError, "failed to fetch cart item")
	}

	if _, ok, err := cartOwner(c, &item.UserID); !ok {
		return nil, false, err
	}
	return item, true, nil
}
