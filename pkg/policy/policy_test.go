package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchRanksByOverlap(t *testing.T) {
	corpus := NewCorpus([]Document{
		{ID: "POL-A", Topic: "cancellation policy", Content: "appointments may be cancelled up to 24 hours in advance"},
		{ID: "POL-B", Topic: "parking", Content: "parking is free for patients with a validated ticket"},
		{ID: "POL-C", Topic: "insurance", Content: "we accept most major insurance providers"},
	})

	matches := corpus.Search("how do I cancel a cancelled appointment", 5)
	assert.NotEmpty(t, matches)
	assert.Equal(t, "POL-A", matches[0].ID)
	for _, m := range matches {
		assert.NotEqual(t, "POL-B", m.ID, "zero-overlap documents must be dropped")
	}
}

func TestSearchLimit(t *testing.T) {
	corpus := NewCorpus(DefaultDocuments())

	matches := corpus.Search("clinic appointment policy", 2)
	assert.LessOrEqual(t, len(matches), 2)
}

func TestSearchEmptyQuery(t *testing.T) {
	corpus := NewCorpus(DefaultDocuments())

	assert.Nil(t, corpus.Search("", 5))
	assert.Nil(t, corpus.Search("  !!! ", 5))
}

func TestSearchIgnoresFillerWords(t *testing.T) {
	corpus := NewCorpus(DefaultDocuments())

	// Filler-only queries must not match anything.
	assert.Nil(t, corpus.Search("how do I the an", 5))

	// And filler words must not pull unrelated documents into real results.
	matches := corpus.Search("what is a no-show fee", 5)
	for _, m := range matches {
		assert.NotEqual(t, "POL-006", m.ID, "parking policy matched on filler words only")
	}
}

func TestSearchNoOverlap(t *testing.T) {
	corpus := NewCorpus(DefaultDocuments())

	assert.Empty(t, corpus.Search("zzzz qqqq", 5))
}

func TestDefaultDocumentsCoverCoreTopics(t *testing.T) {
	corpus := NewCorpus(DefaultDocuments())

	for _, query := range []string{
		"opening hours",
		"cancellation fee",
		"insurance providers",
		"emergency",
	} {
		assert.NotEmpty(t, corpus.Search(query, 3), "no policy matched %q", query)
	}
}
