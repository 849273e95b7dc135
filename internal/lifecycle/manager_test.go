package lifecycle

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupManager(t *testing.T) (*Manager, *gorm.DB) {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Plan{}, &models.Client{},
		&models.Project{}, &models.Task{}, &models.Notification{}, &models.AuditLog{},
	))
	m := NewManager(db)
	m.Now = func() time.Time { return time.Date(2024, 3, 20, 10, 30, 0, 0, time.UTC) }
	return m, db
}

func newClient(t *testing.T, db *gorm.DB, name, email string) *models.Client {
	t.Helper()
	c := &models.Client{Name: name, Email: email, Status: models.StatusPorVisitar}
	require.NoError(t, db.Create(c).Error)
	return c
}

func newPlan(t *testing.T, db *gorm.DB, name string, price float64) *models.Plan {
	t.Helper()
	p := &models.Plan{Name: name, Price: price}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()

	c := newClient(t, db, "Luis", "luis@test.com")
	require.NoError(t, db.Model(c).Update("status", models.StatusInactivo).Error)

	_, err := m.UpdateStatus(ctx, c.ID, models.StatusEnProceso, TransitionInput{})
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.Equal(t, models.StatusInactivo, invalid.From)
	require.Equal(t, models.StatusEnProceso, invalid.To)

	// por_visitar cannot jump straight to en_proceso either
	c2 := newClient(t, db, "Marta", "marta@test.com")
	_, err = m.UpdateStatus(ctx, c2.ID, models.StatusEnProceso, TransitionInput{})
	require.ErrorAs(t, err, &invalid)
}

func TestUpdateStatusUnknownStatusAndMissingClient(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()

	c := newClient(t, db, "Luis", "luis2@test.com")
	_, err := m.UpdateStatus(ctx, c.ID, models.ClientStatus("archivado"), TransitionInput{})
	require.ErrorIs(t, err, ErrUnknownStatus)

	_, err = m.UpdateStatus(ctx, "no-such-id", models.StatusPendiente, TransitionInput{})
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestFirstContactDateSetExactlyOnce(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Eva", "eva@test.com")

	res, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{ContactMethod: "phone"})
	require.NoError(t, err)
	require.NotNil(t, res.Client.FirstContactDate)
	first := *res.Client.FirstContactDate

	// revert and contact again: the stamp must not move
	m.Now = func() time.Time { return time.Date(2024, 3, 25, 9, 0, 0, 0, time.UTC) }
	_, err = m.UpdateStatus(ctx, c.ID, models.StatusPorVisitar, TransitionInput{Reason: "sin respuesta"})
	require.NoError(t, err)
	res, err = m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{ContactMethod: "email"})
	require.NoError(t, err)
	require.True(t, res.Client.FirstContactDate.Equal(first), "first contact date must never be overwritten")
}

func TestRepeatedTargetStatusAppendsTwoNotes(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Nico", "nico@test.com")

	res1, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{ContactMethod: "whatsapp"})
	require.NoError(t, err)
	res2, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{ContactMethod: "phone"})
	require.NoError(t, err)

	// calls are not deduplicated: each appends its own note
	require.Equal(t, 1, strings.Count(res1.Client.Notes, "contactado"))
	require.Equal(t, 2, strings.Count(res2.Client.Notes, "contactado"))
	require.Equal(t, models.StatusPendiente, res2.Client.Status)
}

func TestPlanConfirmationRequiresPlan(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Rosa", "rosa@test.com")
	_, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{})
	require.NoError(t, err)

	_, err = m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, TransitionInput{})
	require.ErrorIs(t, err, ErrPlanRequired)

	_, err = m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, TransitionInput{PlanID: "ghost"})
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestEnProcesoGatedOnPlanStartDate(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Hugo", "hugo@test.com")
	plan := newPlan(t, db, "Básico", 150)

	_, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{})
	require.NoError(t, err)
	_, err = m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, TransitionInput{
		PlanID:        plan.ID,
		PlanStartDate: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC), // future vs fixed now
	})
	require.NoError(t, err)

	_, err = m.UpdateStatus(ctx, c.ID, models.StatusEnProceso, TransitionInput{})
	require.ErrorIs(t, err, ErrPlanNotStarted)

	// once the clock passes the start date, work may begin
	m.Now = func() time.Time { return time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC) }
	res, err := m.UpdateStatus(ctx, c.ID, models.StatusEnProceso, TransitionInput{})
	require.NoError(t, err)
	require.Equal(t, models.StatusEnProceso, res.Client.Status)
}

func TestTransitionWritesAuditTrail(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Iris", "iris@test.com")

	_, err := m.UpdateStatus(ctx, c.ID, models.StatusPendiente, TransitionInput{ActorID: 7})
	require.NoError(t, err)

	var logs []models.AuditLog
	require.NoError(t, db.Where("entity_id = ?", c.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	require.Equal(t, "transition", logs[0].Action)
	require.Equal(t, string(models.StatusPorVisitar), logs[0].OldValue)
	require.Equal(t, string(models.StatusPendiente), logs[0].NewValue)

	var notes []models.Notification
	require.NoError(t, db.Where("user_id = ?", 7).Find(&notes).Error)
	require.Len(t, notes, 1)
}

// Scenario: Ana goes from first visit to a confirmed Premium plan with the
// follow-up tasks templated in one flow.
func TestScenarioAnaPremium(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	ana := newClient(t, db, "Ana", "ana@test.com")
	premium := newPlan(t, db, "Premium", 350)

	_, err := m.UpdateStatus(ctx, ana.ID, models.StatusPendiente, TransitionInput{ContactMethod: "whatsapp"})
	require.NoError(t, err)

	res, err := m.UpdateStatus(ctx, ana.ID, models.StatusPlanConfirmado, TransitionInput{
		PlanID:        premium.ID,
		PlanStartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Tasks)
	require.Len(t, res.Tasks.Created, 9)
	require.Equal(t, "Premium", res.Client.MembershipPlan)
	require.NotNil(t, res.Client.MembershipPlanID)

	// both annotations present, in order
	notes := res.Client.Notes
	contactIdx := strings.Index(notes, "contactado (whatsapp)")
	planIdx := strings.Index(notes, "plan Premium confirmado")
	require.GreaterOrEqual(t, contactIdx, 0)
	require.Greater(t, planIdx, contactIdx)

	// tasks landed on Ana's administrative project
	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	require.EqualValues(t, 9, count)
	adminProject, err := store.NewProjectStore(db).FindAdministrative(ctx, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, adminProject)
}

// A direct sale skips pendiente: the first-contact side effects still apply.
func TestDirectSaleKeepsContactAnnotation(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Sofía", "sofia@test.com")
	plan := newPlan(t, db, "Premium", 350)

	res, err := m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, TransitionInput{
		ContactMethod: "whatsapp",
		PlanID:        plan.ID,
		PlanStartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Client.FirstContactDate)

	notes := res.Client.Notes
	contactIdx := strings.Index(notes, "contactado (whatsapp), interesado")
	planIdx := strings.Index(notes, "plan Premium confirmado")
	require.GreaterOrEqual(t, contactIdx, 0, "contact annotation lost on the direct sale path")
	require.Greater(t, planIdx, contactIdx, "contact note must precede the plan note")
}

func TestReconfirmingPlanDoesNotDuplicateTasks(t *testing.T) {
	m, db := setupManager(t)
	ctx := context.Background()
	c := newClient(t, db, "Leo", "leo@test.com")
	plan := newPlan(t, db, "Básico", 150)

	in := TransitionInput{PlanID: plan.ID, PlanStartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)}
	_, err := m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, in)
	require.NoError(t, err)
	_, err = m.UpdateStatus(ctx, c.ID, models.StatusPlanConfirmado, in)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	require.EqualValues(t, 6, count)
}
