package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"github.com/gigbridge/gigbridge/backend/errs"
	"github.com/gigbridge/gigbridge/backend/models"
)

// ProjectEvent names a requested project status change.
type ProjectEvent string

const (
	EventApprove     ProjectEvent = "approve"
	EventBidAccepted ProjectEvent = "bid-accepted"
	EventComplete    ProjectEvent = "complete"
	EventCancel      ProjectEvent = "cancel"
)

// projectTransitions is the full project state machine. Terminal states have
// no outgoing edges, so any event against them fails the lookup.
var projectTransitions = map[ProjectEvent]struct {
	from models.ProjectStatus
	to   models.ProjectStatus
}{
	EventApprove:     {models.ProjectPending, models.ProjectApproved},
	EventBidAccepted: {models.ProjectApproved, models.ProjectInProgress},
	EventComplete:    {models.ProjectInProgress, models.ProjectCompleted},
	EventCancel:      {models.ProjectInProgress, models.ProjectCancelled},
}

// nextProjectStatus resolves the target status for an event, or an invalid
// transition error when the project is not in the event's source state.
func nextProjectStatus(current models.ProjectStatus, event ProjectEvent) (models.ProjectStatus, error) {
	edge, ok := projectTransitions[event]
	if !ok {
		return "", errs.NewValidationError("event", "unknown project event "+string(event))
	}
	if current != edge.from {
		return "", errs.NewInvalidTransitionError("project", string(current), string(edge.to))
	}
	return edge.to, nil
}

// ProjectRegistry owns project entities and their status state machine.
type ProjectRegistry struct {
	store  Store
	logger zerolog.Logger
}

func NewProjectRegistry(store Store) *ProjectRegistry {
	return &ProjectRegistry{
		store:  store,
		logger: log.With().Str("service", "projectRegistry").Logger(),
	}
}

// CreateProjectInput carries the fields a client supplies when posting work.
type CreateProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Budget      int64    `json:"budget"`
	MinimumBid  int64    `json:"minimumBid"`
	Technology  []string `json:"technology"`
}

// Create posts a new project in pending status, awaiting moderation.
func (r *ProjectRegistry) Create(ctx context.Context, actor models.Actor, input CreateProjectInput) (*models.Project, error) {
	if actor.Role != models.RoleClient {
		return nil, errs.NewAuthorizationError("only clients can post projects")
	}
	if input.Title == "" {
		return nil, errs.NewValidationError("title", "title is required")
	}
	if input.Description == "" {
		return nil, errs.NewValidationError("description", "description is required")
	}
	if input.Budget <= 0 {
		return nil, errs.NewValidationError("budget", "budget must be positive")
	}
	if input.MinimumBid < 0 {
		return nil, errs.NewValidationError("minimumBid", "minimum bid cannot be negative")
	}
	if input.MinimumBid > input.Budget {
		return nil, errs.NewValidationError("minimumBid", "minimum bid cannot exceed the budget")
	}

	project := &models.Project{
		ID:          uuid.New(),
		OwnerID:     actor.ID,
		Title:       input.Title,
		Description: input.Description,
		Budget:      input.Budget,
		MinimumBid:  input.MinimumBid,
		Technology:  datatypes.NewJSONSlice(input.Technology),
		Status:      models.ProjectPending,
		Version:     1,
	}
	if err := r.store.Projects().Create(ctx, project); err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("projectID", project.ID.String()).
		Str("ownerID", project.OwnerID.String()).
		Msg("project created")
	return project, nil
}

// Transition applies a status event to a project. Who may fire which event:
// approve is moderation (admin), cancel and complete belong to the owner.
// bid-accepted is reserved for the proposal ledger and is rejected here.
func (r *ProjectRegistry) Transition(ctx context.Context, actor models.Actor, projectID uuid.UUID, event ProjectEvent) (*models.Project, error) {
	var updated *models.Project
	err := r.store.InTx(ctx, func(s Store) error {
		project, err := s.Projects().FindByID(ctx, projectID)
		if err != nil {
			return err
		}
		if project == nil {
			return errs.NewNotFound("project")
		}

		switch event {
		case EventApprove:
			if !actor.IsAdmin() {
				return errs.NewAuthorizationError("only admins can approve projects")
			}
		case EventCancel:
			if project.OwnerID != actor.ID {
				return errs.NewAuthorizationError("only the project owner can cancel")
			}
		case EventComplete:
			if project.OwnerID != actor.ID {
				return errs.NewAuthorizationError("only the project owner can complete")
			}
			done, err := allSprintsCompleted(ctx, s, projectID)
			if err != nil {
				return err
			}
			if !done {
				return errs.NewPolicyError("all sprints must be completed first")
			}
		case EventBidAccepted:
			return errs.NewAuthorizationError("projects enter in-progress only through bid acceptance")
		default:
			return errs.NewValidationError("event", "unknown project event "+string(event))
		}

		next, err := nextProjectStatus(project.Status, event)
		if err != nil {
			return err
		}
		updated, err = s.Projects().UpdateStatus(ctx, projectID, next, project.Version)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("projectID", projectID.String()).
		Str("event", string(event)).
		Str("status", string(updated.Status)).
		Msg("project transitioned")
	return updated, nil
}

// Get fetches a single project.
func (r *ProjectRegistry) Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := r.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errs.NewNotFound("project")
	}
	return project, nil
}

// ListByOwner returns the projects posted by a client.
func (r *ProjectRegistry) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Project, error) {
	return r.store.Projects().FindByOwner(ctx, ownerID)
}

// ListApproved returns the projects open for bidding.
func (r *ProjectRegistry) ListApproved(ctx context.Context) ([]models.Project, error) {
	return r.store.Projects().FindByStatus(ctx, models.ProjectApproved)
}

// allSprintsCompleted reports whether every sprint of the project is done.
// Vacuously true for projects delivered without a sprint breakdown.
func allSprintsCompleted(ctx context.Context, s Store, projectID uuid.UUID) (bool, error) {
	sprints, err := s.Sprints().FindByProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	for _, sprint := range sprints {
		if sprint.Status != models.SprintCompleted {
			return false, nil
		}
	}
	return true, nil
}
