package database

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gigbridge/gigbridge/backend/models"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db}
}

// Create inserts a new review. The unique index on (project_id, reviewer_id)
// backs the one-review-per-reviewer policy at the storage layer as well.
func (r *ReviewRepo) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByProject returns the reviews filed for a project
func (r *ReviewRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// FindByReviewee returns the reviews a user has received
func (r *ReviewRepo) FindByReviewee(ctx context.Context, revieweeID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("reviewee_id = ?", revieweeID).Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

// ExistsForReviewer reports whether the reviewer already filed a review for
// the project
func (r *ReviewRepo) ExistsForReviewer(ctx context.Context, projectID, reviewerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("project_id = ? AND reviewer_id = ?", projectID, reviewerID).
		Count(&count).Error
	return count > 0, err
}
