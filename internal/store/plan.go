package store

import (
	"context"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

type PlanStore struct {
	DB *gorm.DB
}

func NewPlanStore(db *gorm.DB) *PlanStore { return &PlanStore{DB: db} }

func (s *PlanStore) List(ctx context.Context) ([]models.Plan, error) {
	var rows []models.Plan
	if err := s.DB.WithContext(ctx).Order("price asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *PlanStore) Get(ctx context.Context, id string) (*models.Plan, error) {
	var p models.Plan
	if err := s.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

// GetByName resolves a plan by its unique display name.
func (s *PlanStore) GetByName(ctx context.Context, name string) (*models.Plan, error) {
	var p models.Plan
	if err := s.DB.WithContext(ctx).First(&p, "name = ?", name).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

func (s *PlanStore) Create(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlanStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Plan, error) {
	if err := s.DB.WithContext(ctx).Model(&models.Plan{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the plan. Clients referencing it keep their stored
// membership_plan snapshot; there is no referential-integrity block.
func (s *PlanStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Plan{}, "id = ?", id).Error
}
