package matcher

import (
	"strings"

	"github.com/google/uuid"

	"storefront/internal/models"
)

// DefaultMinScore is the lowest best score accepted before falling back.
const DefaultMinScore = 0.2

// FallbackResponse is sent when nothing matches and no default response exists.
const FallbackResponse = "Thank you for your query. Our team will get back to you shortly."

// keywordScore is the score recorded for a keyword hit.
const keywordScore = 1.0

// Source describes how a response was chosen.
type Source string

// Source values
const (
	SourceKeyword    Source = "keyword"
	SourceSimilarity Source = "similarity"
	SourceDefault    Source = "default"
	SourceFallback   Source = "fallback"
)

// Result is the outcome of resolving one query message.
type Result struct {
	ResponseText string
	ResponseID   *uuid.UUID // nil for the hardcoded fallback
	Score        float64    // best score seen; -1 when there were no candidates
	Source       Source
}

// Matched returns true if a candidate won on keyword or similarity.
func (r Result) Matched() bool {
	return r.Source == SourceKeyword || r.Source == SourceSimilarity
}

// Resolution pairs a query with the result computed for it.
type Resolution struct {
	Query  models.Query
	Result Result
}

// Resolver selects canned responses. It holds no mutable state and is safe for
// concurrent use.
type Resolver struct {
	minScore float64
}

// NewResolver creates a resolver with the given acceptance threshold.
// A non-positive threshold selects DefaultMinScore.
func NewResolver(minScore float64) *Resolver {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Resolver{minScore: minScore}
}

// MinScore returns the acceptance threshold.
func (r *Resolver) MinScore() float64 {
	return r.minScore
}

// ResolveOne picks the response for message. Candidates are visited in order.
// The first candidate with a keyword contained in the message claims score 1 and
// cannot be displaced by a later keyword hit or by an equal similarity score.
// Other candidates compete on Similarity and replace the best only when strictly
// higher. A best score under the threshold falls back to the first default
// candidate, then to FallbackResponse.
func (r *Resolver) ResolveOne(message string, candidates []models.AutomatedResponse) Result {
	lowered := strings.ToLower(message)

	var best *models.AutomatedResponse
	bestSource := SourceSimilarity
	highest := -1.0

	for i := range candidates {
		candidate := &candidates[i]
		if hasKeyword(lowered, candidate.Keywords) {
			if highest < keywordScore {
				highest = keywordScore
				best = candidate
				bestSource = SourceKeyword
			}
			continue
		}

		score := Similarity(message, candidate.ResponseText)
		if score > highest {
			highest = score
			best = candidate
			bestSource = SourceSimilarity
		}
	}

	if best == nil || highest < r.minScore {
		if def := firstDefault(candidates); def != nil {
			return Result{
				ResponseText: def.ResponseText,
				ResponseID:   &def.ID,
				Score:        highest,
				Source:       SourceDefault,
			}
		}
		return Result{
			ResponseText: FallbackResponse,
			Score:        highest,
			Source:       SourceFallback,
		}
	}

	return Result{
		ResponseText: best.ResponseText,
		ResponseID:   &best.ID,
		Score:        highest,
		Source:       bestSource,
	}
}

// ResolveAllPending resolves every query against the same candidate snapshot and
// returns one resolution per query in input order.
func (r *Resolver) ResolveAllPending(queries []models.Query, candidates []models.AutomatedResponse) []Resolution {
	resolutions := make([]Resolution, 0, len(queries))
	for _, q := range queries {
		resolutions = append(resolutions, Resolution{
			Query:  q,
			Result: r.ResolveOne(q.Message, candidates),
		})
	}
	return resolutions
}

// hasKeyword reports whether any keyword occurs in the lowercased message.
// An empty keyword is skipped rather than matching every message.
func hasKeyword(loweredMessage string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(loweredMessage, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func firstDefault(candidates []models.AutomatedResponse) *models.AutomatedResponse {
	for i := range candidates {
		if candidates[i].IsDefault {
			return &candidates[i]
		}
	}
	return nil
}
