package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectStatus is the lifecycle state of a posted project.
type ProjectStatus string

const (
	ProjectPending    ProjectStatus = "pending"
	ProjectApproved   ProjectStatus = "approved"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectCancelled  ProjectStatus = "cancelled"
)

// Terminal reports whether no further transition may leave this status.
func (s ProjectStatus) Terminal() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

// AcceptingProposals reports whether freelancers may still bid on a project
// in this status.
func (s ProjectStatus) AcceptingProposals() bool {
	return s == ProjectApproved || s == ProjectInProgress
}

// Project represents a unit of work posted by a client.
type Project struct {
	ID          uuid.UUID                  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	OwnerID     uuid.UUID                  `json:"ownerId" gorm:"type:uuid;not null;index"`
	Title       string                     `json:"title" gorm:"type:text;not null"`
	Description string                     `json:"description" gorm:"type:text;not null"`
	Budget      int64                      `json:"budget" gorm:"not null"`
	MinimumBid  int64                      `json:"minimumBid" gorm:"not null"`
	Technology  datatypes.JSONSlice[string] `json:"technology"`
	Status      ProjectStatus              `json:"status" gorm:"type:text;not null;default:'pending';index"`
	Version     int                        `json:"version" gorm:"not null;default:1"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}
