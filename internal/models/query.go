package models

import (
	"time"

	"github.com/google/uuid"
)

// Query status constants
const (
	QueryStatusOpen     = "open"
	QueryStatusResolved = "resolved"
)

// AutomatedResolver is the resolvedBy value written by automated resolution.
const AutomatedResolver = "Automated System"

// Query is a customer-submitted support message.
type Query struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Message           string     `json:"message"`
	Status            string     `json:"status"` // open, resolved
	ResolvedBy        *string    `json:"resolvedBy"`
	ResolutionDate    *time.Time `json:"resolutionDate"`
	AutomatedResponse *string    `json:"automatedResponse"`
	AutoResolved      bool       `json:"autoResolved"`
	CreatedAt         time.Time  `json:"dateCreated"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// IsResolved returns true if the query has been resolved.
func (q *Query) IsResolved() bool {
	return q.Status == QueryStatusResolved
}

// QueryResolution is the write-back applied when a query moves to resolved.
type QueryResolution struct {
	ResolvedBy        string
	ResolutionDate    time.Time
	AutomatedResponse *string
	AutoResolved      bool
}

// QueryUpdate is a partial update of a query's resolution fields.
// Nil fields are left unchanged.
type QueryUpdate struct {
	Status            *string    `json:"status"`
	ResolvedBy        *string    `json:"resolvedBy"`
	ResolutionDate    *time.Time `json:"resolutionDate"`
	AutomatedResponse *string    `json:"automatedResponse"`
	AutoResolved      *bool      `json:"autoResolved"`
}

// IsEmpty returns true if no field is set.
func (u *QueryUpdate) IsEmpty() bool {
	return u.Status == nil && u.ResolvedBy == nil && u.ResolutionDate == nil &&
		u.AutomatedResponse == nil && u.AutoResolved == nil
}
