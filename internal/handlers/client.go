package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/gate"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/lifecycle"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
	"github.com/academicpa/skyflow-backoffice/internal/templating"
	"github.com/academicpa/skyflow-backoffice/internal/validation"
	"gorm.io/gorm"
)

type ClientHandler struct {
	Clients   *store.ClientStore
	Lifecycle *lifecycle.Manager
	Gate      *gate.Gate[uint]
}

func NewClientHandler(db *gorm.DB, g *gate.Gate[uint]) *ClientHandler {
	return &ClientHandler{
		Clients:   store.NewClientStore(db),
		Lifecycle: lifecycle.NewManager(db),
		Gate:      g,
	}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionList, "client") {
		return
	}
	limit, offset := pageParams(r)
	filter := store.ClientFilter{
		Status: models.ClientStatus(r.URL.Query().Get("status")),
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	}
	if filter.Status != "" && !filter.Status.Valid() {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
		return
	}
	rows, total, err := h.Clients.List(r.Context(), filter)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionView, "client") {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	client, err := h.Clients.Get(r.Context(), id)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if client == nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionCreate, "client") {
		return
	}
	var input struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Company    string `json:"company"`
		Notes      string `json:"notes"`
		LeadSource string `json:"lead_source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("email", input.Email, v)
	if input.Email != "" {
		validation.Email("email", input.Email, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	client := &models.Client{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Company:    input.Company,
		Status:     models.StatusPorVisitar,
		Notes:      input.Notes,
		LeadSource: input.LeadSource,
	}
	created, err := h.Clients.Create(r.Context(), client)
	if err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionUpdate, "client") {
		return
	}
	var input struct {
		ID         string  `json:"id"`
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Phone      *string `json:"phone"`
		Company    *string `json:"company"`
		Notes      *string `json:"notes"`
		LeadSource *string `json:"lead_source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	fields := map[string]any{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Email != nil {
		fields["email"] = *input.Email
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.Company != nil {
		fields["company"] = *input.Company
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}
	if input.LeadSource != nil {
		fields["lead_source"] = *input.LeadSource
	}
	if len(fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_fields", nil)
		return
	}
	updated, err := h.Clients.Update(r.Context(), input.ID, fields)
	if err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if updated == nil {
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete is a hard delete, no tombstone. Projects are not cascaded.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionDelete, "client") {
		return
	}
	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Clients.Delete(r.Context(), input.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type customTaskInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	DaysFromStart int    `json:"days_from_start"`
}

// UpdateStatus is the lifecycle transition endpoint.
func (h *ClientHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionTransition, "client") {
		return
	}
	var input struct {
		ClientID      string            `json:"client_id"`
		NewStatus     string            `json:"new_status"`
		ContactMethod string            `json:"contact_method"`
		Reason        string            `json:"reason"`
		PlanID        string            `json:"plan_id"`
		PlanStartDate string            `json:"plan_start_date"` // YYYY-MM-DD
		CustomTasks   []customTaskInput `json:"custom_tasks"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.ClientID == "" || input.NewStatus == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_fields", nil)
		return
	}
	var start time.Time
	if input.PlanStartDate != "" {
		parsed, err := time.Parse("2006-01-02", input.PlanStartDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_plan_start_date", nil)
			return
		}
		start = parsed
	}
	custom := make([]templating.TaskSpec, 0, len(input.CustomTasks))
	for _, ct := range input.CustomTasks {
		custom = append(custom, templating.TaskSpec{
			Title:         ct.Title,
			Description:   ct.Description,
			Priority:      models.TaskPriority(ct.Priority),
			DaysFromStart: ct.DaysFromStart,
		})
	}
	actorID, _ := auth.UserIDFromContext(r.Context())
	result, err := h.Lifecycle.UpdateStatus(r.Context(), input.ClientID, models.ClientStatus(input.NewStatus), lifecycle.TransitionInput{
		ContactMethod: input.ContactMethod,
		Reason:        input.Reason,
		PlanID:        input.PlanID,
		PlanStartDate: start,
		CustomTasks:   custom,
		ActorID:       actorID,
	})
	if err != nil {
		writeLifecycleError(w, err)
		return
	}
	payload := map[string]any{"client": result.Client}
	if result.Tasks != nil {
		payload["project_id"] = result.Tasks.ProjectID
		payload["tasks_created"] = len(result.Tasks.Created)
	}
	httpx.JSON(w, http.StatusOK, payload)
}

func writeLifecycleError(w http.ResponseWriter, err error) {
	var invalid *lifecycle.InvalidTransitionError
	switch {
	case errors.As(err, &invalid):
		httpx.JSONError(w, http.StatusConflict, "invalid_transition", map[string]string{
			"from": string(invalid.From), "to": string(invalid.To),
		})
	case errors.Is(err, lifecycle.ErrClientNotFound):
		httpx.JSONError(w, http.StatusNotFound, "client_not_found", nil)
	case errors.Is(err, lifecycle.ErrUnknownStatus):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_status", nil)
	case errors.Is(err, lifecycle.ErrPlanRequired),
		errors.Is(err, lifecycle.ErrPlanNotFound),
		errors.Is(err, lifecycle.ErrPlanNotStarted),
		errors.Is(err, templating.ErrUnknownTier):
		httpx.JSONError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
	}
}
