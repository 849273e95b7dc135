package store

import (
	"context"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

type TaskStore struct {
	DB *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore { return &TaskStore{DB: db} }

type TaskFilter struct {
	ProjectID string
	Status    models.TaskStatus
	Limit     int
	Offset    int
}

func (s *TaskStore) List(ctx context.Context, f TaskFilter) ([]models.Task, int64, error) {
	dbq := s.DB.WithContext(ctx).Model(&models.Task{})
	if f.ProjectID != "" {
		dbq = dbq.Where("project_id = ?", f.ProjectID)
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
	var rows []models.Task
	if err := dbq.Order("due_date asc, created_at asc").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	if err := s.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &t, nil
}

func (s *TaskStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if err := s.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// CreateBatch persists the given tasks in order inside a single transaction.
// Either all rows land or none do.
func (s *TaskStore) CreateBatch(ctx context.Context, tasks []models.Task) ([]models.Task, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range tasks {
			if err := tx.Create(&tasks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Task, error) {
	if err := s.DB.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Task{}, "id = ?", id).Error
}
