package models

import (
	"time"

	"github.com/google/uuid"
)

// SalesRecord is a completed sale, either entered by staff or written at checkout.
type SalesRecord struct {
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date" validate:"required"`
	Items     []string  `json:"items" validate:"required,min=1"`
	Price     float64   `json:"price" validate:"gte=0"`
	Customer  string    `json:"customer" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
