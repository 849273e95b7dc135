// Package lifecycle owns the client status state machine: which transitions
// are legal, the side effects each one applies (first-contact stamp, plan
// binding, note annotations, audit trail, notifications) and the follow-up
// task templating triggered when a plan is confirmed.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
	"github.com/academicpa/skyflow-backoffice/internal/templating"
	"gorm.io/gorm"
)

// transitions is the closed table of legal status changes. Re-applying the
// current status is always allowed (re-annotation); it appends a note per
// call and never repeats one-shot side effects.
var transitions = map[models.ClientStatus][]models.ClientStatus{
	models.StatusPorVisitar:     {models.StatusPendiente, models.StatusPlanConfirmado, models.StatusInactivo},
	models.StatusPendiente:      {models.StatusPlanConfirmado, models.StatusPorVisitar, models.StatusInactivo},
	models.StatusPlanConfirmado: {models.StatusEnProceso, models.StatusInactivo},
	models.StatusEnProceso:      {models.StatusCompletado, models.StatusInactivo},
	models.StatusCompletado:     {models.StatusInactivo},
	models.StatusInactivo:       {},
}

func allowed(from, to models.ClientStatus) bool {
	if from == to {
		return true
	}
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionInput carries the operator-supplied extras for a status change.
type TransitionInput struct {
	ContactMethod string // por_visitar -> pendiente/plan_confirmado
	Reason        string // reversion / deactivation note
	PlanID        string // required when entering plan_confirmado
	PlanStartDate time.Time
	CustomTasks   []templating.TaskSpec
	ActorID       uint // user performing the change, 0 for system paths
}

// TransitionResult is the applied transition plus any templated tasks.
type TransitionResult struct {
	Client *models.Client
	Tasks  *templating.BatchResult
}

type Manager struct {
	DB      *gorm.DB
	Clients *store.ClientStore
	Plans   *store.PlanStore
	Engine  *templating.Engine
	// Now is swappable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewManager(db *gorm.DB) *Manager {
	st := store.New(db)
	return &Manager{
		DB:      db,
		Clients: st.Clients,
		Plans:   st.Plans,
		Engine:  templating.NewEngine(st.Projects, st.Tasks),
		Now:     time.Now,
	}
}

// UpdateStatus validates and applies a client status transition with its
// declared side effects. Store errors surface unwrapped; the status update
// itself is a single-record write so there is nothing to roll back.
func (m *Manager) UpdateStatus(ctx context.Context, clientID string, newStatus models.ClientStatus, in TransitionInput) (*TransitionResult, error) {
	if !newStatus.Valid() {
		return nil, ErrUnknownStatus
	}
	client, err := m.Clients.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if !allowed(client.Status, newStatus) {
		return nil, &InvalidTransitionError{From: client.Status, To: newStatus}
	}

	now := m.Now()
	fields := map[string]any{"status": newStatus}
	var plan *models.Plan

	switch newStatus {
	case models.StatusPendiente:
		// first contact date is set exactly once, never overwritten
		if client.FirstContactDate == nil {
			fields["first_contact_date"] = now
		}
		fields["notes"] = appendNote(client.Notes, now, contactNote(in.ContactMethod)+", interesado")

	case models.StatusPlanConfirmado:
		plan, err = m.resolvePlan(ctx, in.PlanID)
		if err != nil {
			return nil, err
		}
		start := in.PlanStartDate
		if start.IsZero() {
			start = now
		}
		if client.FirstContactDate == nil {
			fields["first_contact_date"] = now
		}
		notes := client.Notes
		// A direct sale from por_visitar is a first contact too: it carries the
		// same contact annotation as the pendiente path, before the plan note.
		if client.Status == models.StatusPorVisitar {
			notes = appendNote(notes, now, contactNote(in.ContactMethod)+", interesado")
		}
		fields["membership_plan_id"] = plan.ID
		fields["membership_plan"] = plan.Name
		fields["plan_start_date"] = start
		fields["notes"] = appendNote(notes, now, "plan "+plan.Name+" confirmado, inicio "+start.Format("2006-01-02"))

	case models.StatusEnProceso:
		if client.PlanStartDate == nil {
			return nil, ErrPlanNotStarted
		}
		if client.PlanStartDate.After(endOfDay(now)) {
			return nil, ErrPlanNotStarted
		}
		fields["notes"] = appendNote(client.Notes, now, "inicio de trabajo del proyecto")

	case models.StatusCompletado:
		fields["notes"] = appendNote(client.Notes, now, "plan completado")

	case models.StatusPorVisitar:
		fields["notes"] = appendNote(client.Notes, now, "revertido a por visitar: "+orDefault(in.Reason, "sin motivo"))

	case models.StatusInactivo:
		fields["notes"] = appendNote(client.Notes, now, "desactivado: "+orDefault(in.Reason, "no interesado"))
	}

	from := client.Status
	updated, err := m.Clients.Update(ctx, clientID, fields)
	if err != nil {
		return nil, err
	}
	m.audit(ctx, in.ActorID, clientID, from, newStatus)
	m.notify(ctx, in.ActorID, updated, from, newStatus)

	result := &TransitionResult{Client: updated}
	// Templating fires once, on entering plan_confirmado. Re-confirming the
	// same status must not duplicate the follow-up tasks. Plans outside the
	// tier catalog confirm without templated tasks.
	if plan != nil && from != models.StatusPlanConfirmado && m.Engine != nil && templating.KnownTier(plan.Name) {
		start := updated.PlanStartDate
		batch, terr := m.Engine.Instantiate(ctx, updated, *start, plan.Name, in.CustomTasks)
		result.Tasks = batch
		if terr != nil {
			return result, terr
		}
		n := len(batch.Created)
		noted, nerr := m.Clients.Update(ctx, clientID, map[string]any{
			"notes": appendNote(updated.Notes, now, fmt.Sprintf("%d tareas de seguimiento creadas", n)),
		})
		if nerr != nil {
			return result, nerr
		}
		result.Client = noted
	}
	return result, nil
}

func (m *Manager) resolvePlan(ctx context.Context, planID string) (*models.Plan, error) {
	if planID == "" {
		return nil, ErrPlanRequired
	}
	plan, err := m.Plans.Get(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (m *Manager) audit(ctx context.Context, actorID uint, clientID string, from, to models.ClientStatus) {
	entry := models.AuditLog{
		UserID:     actorID,
		EntityType: "Client",
		EntityID:   clientID,
		Action:     "transition",
		Field:      "status",
		OldValue:   string(from),
		NewValue:   string(to),
	}
	// Audit failures are logged into the error stream by gorm; they never
	// fail the transition itself.
	_ = m.DB.WithContext(ctx).Create(&entry).Error
}

func (m *Manager) notify(ctx context.Context, actorID uint, client *models.Client, from, to models.ClientStatus) {
	if actorID == 0 {
		return
	}
	n := models.Notification{
		UserID:  actorID,
		Type:    "dashboard",
		Title:   "Cliente actualizado",
		Message: fmt.Sprintf("%s: %s -> %s", client.Name, from, to),
		SentAt:  m.Now(),
	}
	_ = m.DB.WithContext(ctx).Create(&n).Error
}

// appendNote adds a timestamped annotation, keeping earlier notes intact.
func appendNote(notes string, at time.Time, msg string) string {
	line := "[" + at.Format("2006-01-02 15:04") + "] " + msg
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

func contactNote(method string) string {
	if method == "" {
		return "contactado"
	}
	return "contactado (" + method + ")"
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func endOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 59, 0, t.Location())
}
