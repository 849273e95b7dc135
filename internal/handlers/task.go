package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/academicpa/skyflow-backoffice/internal/gate"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
	"github.com/academicpa/skyflow-backoffice/internal/validation"
	"gorm.io/gorm"
)

type TaskHandler struct {
	Tasks    *store.TaskStore
	Projects *store.ProjectStore
	Gate     *gate.Gate[uint]
}

func NewTaskHandler(db *gorm.DB, g *gate.Gate[uint]) *TaskHandler {
	return &TaskHandler{
		Tasks:    store.NewTaskStore(db),
		Projects: store.NewProjectStore(db),
		Gate:     g,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionList, "task") {
		return
	}
	limit, offset := pageParams(r)
	filter := store.TaskFilter{
		ProjectID: r.URL.Query().Get("project_id"),
		Status:    models.TaskStatus(r.URL.Query().Get("status")),
		Limit:     limit,
		Offset:    offset,
	}
	rows, total, err := h.Tasks.List(r.Context(), filter)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_tasks", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionCreate, "task") {
		return
	}
	var input struct {
		ProjectID   string `json:"project_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
		DueDate     string `json:"due_date"` // YYYY-MM-DD
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("title", input.Title, v)
	validation.Required("project_id", input.ProjectID, v)
	if input.Priority != "" {
		validation.OneOf("priority", input.Priority, []string{"low", "medium", "high"}, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	project, err := h.Projects.Get(r.Context(), input.ProjectID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if project == nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "project_not_found", nil)
		return
	}
	task := &models.Task{
		ProjectID:   input.ProjectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskPending,
		Priority:    models.PriorityMedium,
	}
	if input.Priority != "" {
		task.Priority = models.TaskPriority(input.Priority)
	}
	if input.DueDate != "" {
		d, err := time.Parse("2006-01-02", input.DueDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_due_date", nil)
			return
		}
		task.DueDate = &d
	}
	created, err := h.Tasks.Create(r.Context(), task)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionUpdate, "task") {
		return
	}
	var input struct {
		ID          string  `json:"id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
		DueDate     *string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	v := validation.Violations{}
	fields := map[string]any{}
	if input.Title != nil {
		validation.Required("title", *input.Title, v)
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		validation.OneOf("status", *input.Status, []string{"pending", "in-progress", "completed"}, v)
		fields["status"] = *input.Status
	}
	if input.Priority != nil {
		validation.OneOf("priority", *input.Priority, []string{"low", "medium", "high"}, v)
		fields["priority"] = *input.Priority
	}
	if input.DueDate != nil {
		d, err := time.Parse("2006-01-02", *input.DueDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_due_date", nil)
			return
		}
		fields["due_date"] = d
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if len(fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_fields", nil)
		return
	}
	updated, err := h.Tasks.Update(r.Context(), input.ID, fields)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if updated == nil {
		httpx.JSONError(w, http.StatusNotFound, "task_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionDelete, "task") {
		return
	}
	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Tasks.Delete(r.Context(), input.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
