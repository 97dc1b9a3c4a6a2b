package models

import (
	"time"

	"github.com/google/uuid"
)

// Backup is a point-in-time snapshot of queries and automated responses.
type Backup struct {
	ID        uuid.UUID           `json:"id"`
	Queries   []Query             `json:"queries"`
	Responses []AutomatedResponse `json:"responses"`
	ObjectURI *string             `json:"objectUri,omitempty"` // set when the snapshot was also uploaded
	CreatedAt time.Time           `json:"timestamp"`
}

// BackupSummary lists a backup without its payload.
type BackupSummary struct {
	ID            uuid.UUID `json:"id"`
	QueryCount    int       `json:"queryCount"`
	ResponseCount int       `json:"responseCount"`
	ObjectURI     *string   `json:"objectUri,omitempty"`
	CreatedAt     time.Time `json:"timestamp"`
}
