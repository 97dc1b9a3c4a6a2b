package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a user's cart.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CheckoutResult is returned after an order has been placed.
type CheckoutResult struct {
	SalesRecord *SalesRecord `json:"salesRecord"`
	ItemCount   int          `json:"itemCount"`
}
