// Package templating materializes plan follow-up tasks for a client once a
// membership plan is confirmed.
package templating

import (
	"context"
	"errors"
	"time"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
)

var ErrUnknownTier = errors.New("unknown_plan_tier")

// BatchResult reports what a templating run produced. Created always lists
// the persisted tasks so callers can report success explicitly.
type BatchResult struct {
	ProjectID string
	Created   []models.Task
}

type Engine struct {
	Projects *store.ProjectStore
	Tasks    *store.TaskStore
}

func NewEngine(projects *store.ProjectStore, tasks *store.TaskStore) *Engine {
	return &Engine{Projects: projects, Tasks: tasks}
}

// Instantiate creates the template tasks for tier plus any caller-supplied
// custom specs, in that order, attached to the client's administrative
// project (created on demand). Due dates are planStartDate + DaysFromStart
// with no business-day adjustment; same-day collisions are allowed.
// The batch write is transactional.
func (e *Engine) Instantiate(ctx context.Context, client *models.Client, planStartDate time.Time, tier string, custom []TaskSpec) (*BatchResult, error) {
	specs, ok := TemplateFor(tier)
	if !ok {
		return nil, ErrUnknownTier
	}
	project, err := e.adminProject(ctx, client, tier)
	if err != nil {
		return nil, err
	}
	all := make([]TaskSpec, 0, len(specs)+len(custom))
	all = append(all, specs...)
	all = append(all, custom...)

	tasks := make([]models.Task, len(all))
	for i, spec := range all {
		due := planStartDate.AddDate(0, 0, spec.DaysFromStart)
		priority := spec.Priority
		if priority == "" {
			priority = models.PriorityMedium
		}
		tasks[i] = models.Task{
			ProjectID:   project.ID,
			Title:       spec.Title,
			Description: spec.Description,
			Status:      models.TaskPending,
			Priority:    priority,
			DueDate:     &due,
		}
	}
	created, err := e.Tasks.CreateBatch(ctx, tasks)
	if err != nil {
		return &BatchResult{ProjectID: project.ID}, err
	}
	return &BatchResult{ProjectID: project.ID, Created: created}, nil
}

func (e *Engine) adminProject(ctx context.Context, client *models.Client, tier string) (*models.Project, error) {
	existing, err := e.Projects.FindAdministrative(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	return e.Projects.Create(ctx, &models.Project{
		ClientID:       client.ID,
		Name:           "Seguimiento " + tier + " - " + client.Name,
		Description:    "Tareas de seguimiento del plan",
		Status:         models.ProjectInProgress,
		Administrative: true,
	})
}
