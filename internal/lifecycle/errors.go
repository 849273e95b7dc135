package lifecycle

import (
	"errors"
	"fmt"

	"github.com/academicpa/skyflow-backoffice/internal/models"
)

var (
	ErrClientNotFound = errors.New("client_not_found")
	ErrUnknownStatus  = errors.New("unknown_status")
	ErrPlanRequired   = errors.New("plan_required")
	ErrPlanNotFound   = errors.New("plan_not_found")
	ErrPlanNotStarted = errors.New("plan_not_started")
)

// InvalidTransitionError rejects a status change not present in the
// transition table.
type InvalidTransitionError struct {
	From models.ClientStatus
	To   models.ClientStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}
