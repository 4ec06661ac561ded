package service

import (
	"context"
	"encoding/json"
	"time"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/repository/contract"
	"clinic-voice-be/pkg/embedding"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type IPreferenceService interface {
	Store(ctx context.Context, mrn, content string, metadata map[string]interface{}) (*entity.PatientPreference, error)
	Search(ctx context.Context, mrn, query string, limit int) ([]*entity.PatientPreference, error)
}

// preferenceService remembers caller preferences ("mornings only", "prefers
// female cardiologist") as embeddings so later conversations can recall them
// by meaning, not exact wording.
type preferenceService struct {
	preferenceRepo contract.PreferenceRepository
	provider       embedding.EmbeddingProvider
	logger         logger.ILogger
}

func NewPreferenceService(
	preferenceRepo contract.PreferenceRepository,
	provider embedding.EmbeddingProvider,
	logger logger.ILogger,
) IPreferenceService {
	return &preferenceService{
		preferenceRepo: preferenceRepo,
		provider:       provider,
		logger:         logger,
	}
}

func (s *preferenceService) Store(ctx context.Context, mrn, content string, metadata map[string]interface{}) (*entity.PatientPreference, error) {
	vector, err := s.provider.Generate(content)
	if err != nil {
		return nil, err
	}

	var meta datatypes.JSON
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		meta = datatypes.JSON(raw)
	}

	pref := &entity.PatientPreference{
		PatientMRN: mrn,
		Content:    content,
		Embedding:  pgvector.NewVector(vector),
		Metadata:   meta,
		CreatedAt:  time.Now(),
	}
	if err := s.preferenceRepo.Create(ctx, pref); err != nil {
		return nil, err
	}

	s.logger.Info("preference", "preference stored", map[string]interface{}{
		"patient_mrn":   mrn,
		"preference_id": pref.Id,
	})
	return pref, nil
}

func (s *preferenceService) Search(ctx context.Context, mrn, query string, limit int) ([]*entity.PatientPreference, error) {
	vector, err := s.provider.Generate(query)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 5
	}
	return s.preferenceRepo.SearchSimilar(ctx, mrn, vector, limit)
}
