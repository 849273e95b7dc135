package store

import (
	"context"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

type ProjectStore struct {
	DB *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore { return &ProjectStore{DB: db} }

type ProjectFilter struct {
	ClientID string
	Status   models.ProjectStatus
	Limit    int
	Offset   int
}

// List returns projects with their tasks preloaded.
func (s *ProjectStore) List(ctx context.Context, f ProjectFilter) ([]models.Project, int64, error) {
	dbq := s.DB.WithContext(ctx).Model(&models.Project{})
	if f.ClientID != "" {
		dbq = dbq.Where("client_id = ?", f.ClientID)
	}
	if f.Status != "" {
		dbq = dbq.Where("status = ?", f.Status)
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.Project
	if err := dbq.Preload("Tasks").Order("created_at desc").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	if err := s.DB.WithContext(ctx).Preload("Tasks").First(&p, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Project, error) {
	if err := s.DB.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Project{}, "id = ?", id).Error
}

// FindAdministrative returns the client's administrative follow-up project,
// or (nil, nil) if none exists yet.
func (s *ProjectStore) FindAdministrative(ctx context.Context, clientID string) (*models.Project, error) {
	var p models.Project
	err := s.DB.WithContext(ctx).
		Where("client_id = ? AND administrative = ?", clientID, true).
		First(&p).Error
	if err != nil {
		return nil, notFoundAsNil(err)
	}
	return &p, nil
}
