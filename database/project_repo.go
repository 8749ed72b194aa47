package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// Create inserts a new project into the database
func (r *ProjectRepo) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// FindByID returns a project by its ID, or nil when it does not exist
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByOwner returns the projects posted by a client
func (r *ProjectRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByStatus returns all projects in the given status
func (r *ProjectRepo) FindByStatus(ctx context.Context, status models.ProjectStatus) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// UpdateStatus moves a project to a new status with a compare-and-swap on
// the version column. Zero rows affected means a concurrent writer won.
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, expectedVersion int) (*models.Project, error) {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{"status": status, "version": expectedVersion + 1})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewStaleWriteError("project", expectedVersion)
	}
	return r.FindByID(ctx, id)
}
