package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"
)

// PreferenceStore keeps patient preference embeddings in process memory and
// ranks by cosine similarity, mirroring the vector-distance ordering the
// postgres implementation gets from pgvector.
type PreferenceStore struct {
	mu    sync.RWMutex
	items []*entity.PatientPreference
}

var _ contract.PreferenceRepository = &PreferenceStore{}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{}
}

func (p *PreferenceStore) Create(_ context.Context, pref *entity.PatientPreference) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pref.Id == uuid.Nil {
		pref.Id = uuid.New()
	}
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = time.Now()
	}
	cp := *pref
	p.items = append(p.items, &cp)
	return nil
}

func (p *PreferenceStore) SearchSimilar(_ context.Context, mrn string, embedding []float32, limit int) ([]*entity.PatientPreference, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	type scored struct {
		pref  *entity.PatientPreference
		score float64
	}
	var candidates []scored
	for _, item := range p.items {
		if item.PatientMRN != mrn {
			continue
		}
		cp := *item
		candidates = append(candidates, scored{pref: &cp, score: cosineSimilarity(embedding, item.Embedding.Slice())})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	results := make([]*entity.PatientPreference, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, c.pref)
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
