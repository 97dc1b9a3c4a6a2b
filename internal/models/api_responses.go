package models

import (
	"github.com/google/uuid"
)

// QueryListResponse is one page of queries.
type QueryListResponse struct {
	Queries    []Query `json:"queries"`
	TotalCount int64   `json:"totalCount"`
}

// ResolutionFailure records a query the batch could not resolve.
type ResolutionFailure struct {
	QueryID uuid.UUID `json:"queryId"`
	Error   string    `json:"error"`
}

// BatchResolveResponse is the result of resolving all pending queries.
type BatchResolveResponse struct {
	Message        string              `json:"message"`
	ProcessedCount int                 `json:"processedCount"`
	UpdatedQueries []Query             `json:"updatedQueries"`
	Failures       []ResolutionFailure `json:"failures,omitempty"`
}

// MatchPreviewResponse shows which response a message would receive.
type MatchPreviewResponse struct {
	ResponseText string     `json:"responseText"`
	ResponseID   *uuid.UUID `json:"responseId,omitempty"`
	Source       string     `json:"source"`
	Score        float64    `json:"score"`
	Matched      bool       `json:"matched"`
}
