package store

import (
	"context"
	"regexp"
	"strings"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

type ClientStore struct {
	DB *gorm.DB
}

func NewClientStore(db *gorm.DB) *ClientStore { return &ClientStore{DB: db} }

// ClientFilter narrows List results. Zero value lists everything.
type ClientFilter struct {
	Status models.ClientStatus
	Query  string // matches name or email, case-insensitive
	Limit  int
	Offset int
}

var unsafeQueryChars = regexp.MustCompile(`[^a-zA-Z0-9@. \-_]`)

func (s *ClientStore) List(ctx context.Context, f ClientFilter) ([]models.Client, int64, error) {
	dbq := s.DB.WithContext(ctx).Model(&models.Client{})
	if f.Status != "" {
		dbq = dbq.Where("status = ?", f.Status)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(unsafeQueryChars.ReplaceAllString(q, "")) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	var total int64
	if err := dbq.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.Client
	if err := dbq.Order("created_at desc").Limit(limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get returns (nil, nil) when no client has the given id.
func (s *ClientStore) Get(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.DB.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFoundAsNil(err)
	}
	return &c, nil
}

func (s *ClientStore) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	if err := s.DB.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial column update and returns the fresh row.
func (s *ClientStore) Update(ctx context.Context, id string, fields map[string]any) (*models.Client, error) {
	if err := s.DB.WithContext(ctx).Model(&models.Client{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&models.Client{}, "id = ?", id).Error
}
