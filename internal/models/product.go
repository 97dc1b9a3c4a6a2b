package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is an item sold in the storefront.
type Product struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name" validate:"required"`
	Description    string    `json:"description" validate:"required"`
	Price          float64   `json:"price" validate:"gte=0"`
	Specifications []string  `json:"specifications" validate:"required"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
