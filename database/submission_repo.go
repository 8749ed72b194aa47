package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db}
}

// Create inserts a new work submission into the database
func (r *SubmissionRepo) Create(ctx context.Context, submission *models.WorkSubmission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// FindByID returns a submission by its ID, or nil when it does not exist
func (r *SubmissionRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.WorkSubmission, error) {
	var submission models.WorkSubmission
	err := r.db.WithContext(ctx).First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByProject returns a project's submissions, newest first
func (r *SubmissionRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.WorkSubmission, error) {
	var submissions []models.WorkSubmission
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

// FindBySprint returns the submissions delivered against a sprint
func (r *SubmissionRepo) FindBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.WorkSubmission, error) {
	var submissions []models.WorkSubmission
	err := r.db.WithContext(ctx).Where("sprint_id = ?", sprintID).Order("created_at DESC").Find(&submissions).Error
	return submissions, err
}

// CountApproved counts a project's approved submissions, the figure the
// review gate and progress computation are built on
func (r *SubmissionRepo) CountApproved(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WorkSubmission{}).
		Where("project_id = ? AND status = ?", projectID, models.SubmissionApproved).
		Count(&count).Error
	return int(count), err
}

// UpdateStatus applies a review decision with a compare-and-swap on the
// version column. Zero rows affected means the decision raced a newer write.
func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus, notes string, expectedVersion int) (*models.WorkSubmission, error) {
	updates := map[string]any{"status": status, "version": expectedVersion + 1}
	if notes != "" {
		updates["notes"] = notes
	}
	res := r.db.WithContext(ctx).Model(&models.WorkSubmission{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, errs.NewStaleWriteError("work submission", expectedVersion)
	}
	return r.FindByID(ctx, id)
}
