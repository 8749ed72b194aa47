package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

type SprintRepo struct {
	db *gorm.DB
}

func NewSprintRepo(db *gorm.DB) *SprintRepo {
	return &SprintRepo{db}
}

// CreateBatch inserts a project's planned sprints in one statement
func (r *SprintRepo) CreateBatch(ctx context.Context, sprints []*models.Sprint) error {
	return r.db.WithContext(ctx).Create(sprints).Error
}

// FindByID returns a sprint by its ID, or nil when it does not exist
func (r *SprintRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	var sprint models.Sprint
	err := r.db.WithContext(ctx).First(&sprint, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sprint, nil
}

// FindByProject returns a project's sprints in planning order
func (r *SprintRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Sprint, error) {
	var sprints []models.Sprint
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("start_date ASC").Find(&sprints).Error
	return sprints, err
}

// UpdateStatus moves a sprint to a new status
func (r *SprintRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SprintStatus) (*models.Sprint, error) {
	res := r.db.WithContext(ctx).Model(&models.Sprint{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewNotFound("sprint")
	}
	return r.FindByID(ctx, id)
}
