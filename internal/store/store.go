// Package store is the persistence boundary of the back office. Each entity
// gets a narrow store type over *gorm.DB exposing list/get/create/update/delete;
// the domain packages (lifecycle, templating) only talk to these.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// notFoundAsNil translates gorm's not-found sentinel into a nil row so callers
// can distinguish "absent" from a real store failure.
func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// Stores bundles the per-entity stores over one DB handle.
type Stores struct {
	Clients  *ClientStore
	Projects *ProjectStore
	Tasks    *TaskStore
	Plans    *PlanStore
}

func New(db *gorm.DB) *Stores {
	return &Stores{
		Clients:  NewClientStore(db),
		Projects: NewProjectStore(db),
		Tasks:    NewTaskStore(db),
		Plans:    NewPlanStore(db),
	}
}
