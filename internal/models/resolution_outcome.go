package models

import "time"

// ResolutionOutcome is a per-source count of automated resolutions.
type ResolutionOutcome struct {
	Source     string
	Count      int64
	LastSeenAt time.Time
}
