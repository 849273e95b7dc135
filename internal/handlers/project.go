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

type ProjectHandler struct {
	Projects *store.ProjectStore
	Clients  *store.ClientStore
	Gate     *gate.Gate[uint]
}

func NewProjectHandler(db *gorm.DB, g *gate.Gate[uint]) *ProjectHandler {
	return &ProjectHandler{
		Projects: store.NewProjectStore(db),
		Clients:  store.NewClientStore(db),
		Gate:     g,
	}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionList, "project") {
		return
	}
	limit, offset := pageParams(r)
	filter := store.ProjectFilter{
		ClientID: r.URL.Query().Get("client_id"),
		Status:   models.ProjectStatus(r.URL.Query().Get("status")),
		Limit:    limit,
		Offset:   offset,
	}
	rows, total, err := h.Projects.List(r.Context(), filter)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_projects", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": total, "limit": limit, "offset": offset})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionCreate, "project") {
		return
	}
	var input struct {
		ClientID    string   `json:"client_id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Status      string   `json:"status"`
		Budget      *float64 `json:"budget"`
		Deadline    string   `json:"deadline"` // YYYY-MM-DD
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.Required("client_id", input.ClientID, v)
	if input.Status != "" {
		validation.OneOf("status", input.Status, []string{"pending", "in-progress", "completed", "cancelled"}, v)
	}
	if input.Budget != nil {
		validation.NonNegativeFloat("budget", *input.Budget, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	// no orphan projects: the owning client must exist
	client, err := h.Clients.Get(r.Context(), input.ClientID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if client == nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "client_not_found", nil)
		return
	}
	project := &models.Project{
		ClientID:    input.ClientID,
		Name:        input.Name,
		Description: input.Description,
		Status:      models.ProjectPending,
	}
	if input.Status != "" {
		project.Status = models.ProjectStatus(input.Status)
	}
	if input.Budget != nil {
		project.Budget = input.Budget
	}
	if input.Deadline != "" {
		d, err := time.Parse("2006-01-02", input.Deadline)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_deadline", nil)
			return
		}
		project.Deadline = &d
	}
	created, err := h.Projects.Create(r.Context(), project)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionUpdate, "project") {
		return
	}
	var input struct {
		ID          string   `json:"id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Status      *string  `json:"status"`
		Budget      *float64 `json:"budget"`
		Deadline    *string  `json:"deadline"`
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
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		v := validation.Violations{}
		validation.OneOf("status", *input.Status, []string{"pending", "in-progress", "completed", "cancelled"}, v)
		if !v.Empty() {
			httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
			return
		}
		fields["status"] = *input.Status
	}
	if input.Budget != nil {
		fields["budget"] = *input.Budget
	}
	if input.Deadline != nil {
		d, err := time.Parse("2006-01-02", *input.Deadline)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_deadline", nil)
			return
		}
		fields["deadline"] = d
	}
	if len(fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_fields", nil)
		return
	}
	updated, err := h.Projects.Update(r.Context(), input.ID, fields)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if updated == nil {
		httpx.JSONError(w, http.StatusNotFound, "project_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionDelete, "project") {
		return
	}
	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Projects.Delete(r.Context(), input.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
