package implementation

import (
	"context"

	"clinic-voice-be/internal/entity"
	"clinic-voice-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PreferenceRepositoryImpl struct {
	db *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) contract.PreferenceRepository {
	return &PreferenceRepositoryImpl{db: db}
}

func (r *PreferenceRepositoryImpl) Create(ctx context.Context, pref *entity.PatientPreference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

func (r *PreferenceRepositoryImpl) SearchSimilar(ctx context.Context, mrn string, embedding []float32, limit int) ([]*entity.PatientPreference, error) {
	var prefs []*entity.PatientPreference
	err := r.db.WithContext(ctx).
		Where("patient_mrn = ?", mrn).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "embedding <=> ?",
			Vars:               []interface{}{pgvector.NewVector(embedding)},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&prefs).Error
	if err != nil {
		return nil, err
	}
	return prefs, nil
}
