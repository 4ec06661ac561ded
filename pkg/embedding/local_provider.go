package embedding

import (
	"hash/fnv"
	"strings"
	"unicode"
)

// LocalProvider produces deterministic bag-of-words embeddings without any
// external model. It exists for the demo seed data and for tests: identical
// texts map to identical vectors, and texts sharing words land close together
// under cosine similarity.
type LocalProvider struct {
	dims int
}

func NewLocalProvider(dims int) EmbeddingProvider {
	if dims <= 0 {
		dims = 768
	}
	return &LocalProvider{dims: dims}
}

func (p *LocalProvider) Dimensions() int {
	return p.dims
}

func (p *LocalProvider) Generate(text string) ([]float32, error) {
	vec := make([]float32, p.dims)
	for _, word := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32())%p.dims] += 1
	}
	return normalizeVector(vec), nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
