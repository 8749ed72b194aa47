package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SprintStatus is the lifecycle state of a delivery sprint.
type SprintStatus string

const (
	SprintPlanning   SprintStatus = "planning"
	SprintInProgress SprintStatus = "in-progress"
	SprintCompleted  SprintStatus = "completed"
)

// Sprint is a time-boxed slice of a project's feature scope.
type Sprint struct {
	ID        uuid.UUID                   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ProjectID uuid.UUID                   `json:"projectId" gorm:"type:uuid;not null;index"`
	Title     string                      `json:"title" gorm:"type:text;not null"`
	Features  datatypes.JSONSlice[string] `json:"features"`
	Status    SprintStatus                `json:"status" gorm:"type:text;not null;default:'planning'"`
	StartDate time.Time                   `json:"startDate"`
	EndDate   time.Time                   `json:"endDate"`
	CreatedAt time.Time                   `json:"createdAt"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}
