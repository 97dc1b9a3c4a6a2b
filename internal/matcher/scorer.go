// Package matcher picks the canned response that best answers a customer query.
package matcher

import (
	"math"
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into word tokens. Anything that is not
// a letter, digit or underscore separates tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// corpus is a small TF-IDF document set. Documents are term count maps with
// stop words removed.
type corpus struct {
	docs []map[string]int
}

func newCorpus(texts ...string) *corpus {
	c := &corpus{docs: make([]map[string]int, 0, len(texts))}
	for _, text := range texts {
		doc := make(map[string]int)
		for _, term := range Tokenize(text) {
			if stopWords[term] {
				continue
			}
			doc[term]++
		}
		c.docs = append(c.docs, doc)
	}
	return c
}

// idf is 1 + ln(N / (1 + df)).
func (c *corpus) idf(term string) float64 {
	df := 0
	for _, doc := range c.docs {
		if doc[term] > 0 {
			df++
		}
	}
	return 1 + math.Log(float64(len(c.docs))/float64(1+df))
}

func (c *corpus) tfidf(term string, doc int) float64 {
	tf := c.docs[doc][term]
	if tf == 0 {
		return 0
	}
	return float64(tf) * c.idf(term)
}

// Similarity scores how close candidateText is to query. The query is document 0
// and the candidate document 1 of a fresh two-document corpus. Every query token
// adds tfidf(t, 0) * tfidf(t, 1) when both weights are positive, so a token that
// repeats in the query counts once per occurrence.
//
// The score is unbounded and only comparable across candidates for one query.
func Similarity(query, candidateText string) float64 {
	c := newCorpus(query, candidateText)

	var score float64
	for _, term := range Tokenize(query) {
		w0 := c.tfidf(term, 0)
		w1 := c.tfidf(term, 1)
		if w0 > 0 && w1 > 0 {
			score += w0 * w1
		}
	}
	return score
}
