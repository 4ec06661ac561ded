package policy

import (
	"sort"
	"strings"
	"unicode"
)

// Document is one clinic policy article.
type Document struct {
	ID      string `json:"id"`
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// Match is a scored search hit.
type Match struct {
	Document
	Score float64 `json:"score"`
}

// Corpus is an in-memory keyword index over the clinic policy documents.
type Corpus struct {
	docs   []Document
	tokens map[string][]string // doc id -> token list
}

func NewCorpus(docs []Document) *Corpus {
	c := &Corpus{docs: docs, tokens: make(map[string][]string, len(docs))}
	for _, doc := range docs {
		c.tokens[doc.ID] = tokenize(doc.Topic + " " + doc.Content)
	}
	return c
}

// Search ranks documents by keyword overlap with the query. Topic words count
// double through the combined token list; zero-overlap documents are dropped.
func (c *Corpus) Search(query string, limit int) []Match {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}
	querySet := make(map[string]bool, len(queryTokens))
	for _, t := range queryTokens {
		querySet[t] = true
	}

	var matches []Match
	for _, doc := range c.docs {
		hits := 0
		for _, t := range c.tokens[doc.ID] {
			if querySet[t] {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		matches = append(matches, Match{
			Document: doc,
			Score:    float64(hits) / float64(len(queryTokens)),
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// stopWords never count toward a match; without the filter, filler words like
// "a" or "is" would connect a query to almost every document.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"what": true, "when": true, "how": true, "who": true, "which": true,
	"i": true, "me": true, "my": true, "you": true, "your": true, "we": true,
	"do": true, "does": true, "can": true, "may": true, "and": true,
	"for": true, "with": true, "have": true, "not": true, "our": true,
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, word := range fields {
		if len(word) > 2 && !stopWords[word] {
			tokens = append(tokens, word)
		}
	}
	return tokens
}
