package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewerType says which side of the engagement wrote the review.
type ReviewerType string

const (
	ReviewerClient     ReviewerType = "client"
	ReviewerFreelancer ReviewerType = "freelancer"
)

// Review is rated feedback exchanged between client and freelancer after
// enough delivery milestones have been approved.
type Review struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID    uuid.UUID    `json:"projectId" gorm:"type:uuid;not null;index:idx_reviews_project_reviewer,unique"`
	ReviewerID   uuid.UUID    `json:"reviewerId" gorm:"type:uuid;not null;index:idx_reviews_project_reviewer,unique"`
	RevieweeID   uuid.UUID    `json:"revieweeId" gorm:"type:uuid;not null;index"`
	ReviewerType ReviewerType `json:"reviewerType" gorm:"type:text;not null"`
	Rating       int          `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment      string       `json:"comment" gorm:"type:text;not null"`
	CreatedAt    time.Time    `json:"createdAt"`
}
