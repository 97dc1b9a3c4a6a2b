package models

import (
	"time"

	"github.com/google/uuid"
)

// AutomatedResponse is a canned reply configured by staff. Its keywords trigger
// it directly; otherwise it competes on text similarity.
type AutomatedResponse struct {
	ID           uuid.UUID `json:"id"`
	Keywords     []string  `json:"keywords"`
	ResponseText string    `json:"responseText"`
	IsDefault    bool      `json:"isDefault"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
