package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/academicpa/skyflow-backoffice/internal/gate"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/store"
	"github.com/academicpa/skyflow-backoffice/internal/validation"
	"gorm.io/gorm"
)

type PlanHandler struct {
	Plans *store.PlanStore
	Gate  *gate.Gate[uint]
}

func NewPlanHandler(db *gorm.DB, g *gate.Gate[uint]) *PlanHandler {
	return &PlanHandler{Plans: store.NewPlanStore(db), Gate: g}
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionList, "plan") {
		return
	}
	rows, err := h.Plans.List(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_plans", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionCreate, "plan") {
		return
	}
	var input struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.NonNegativeFloat("price", input.Price, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	created, err := h.Plans.Create(r.Context(), &models.Plan{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
	})
	if err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "plan_name_taken", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update may rename a plan. Existing clients keep their membership_plan
// snapshot; only the id reference remains joinable afterwards.
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionUpdate, "plan") {
		return
	}
	var input struct {
		ID          string   `json:"id"`
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
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
	if input.Name != nil {
		validation.Required("name", *input.Name, v)
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Price != nil {
		validation.NonNegativeFloat("price", *input.Price, v)
		fields["price"] = *input.Price
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if len(fields) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_fields", nil)
		return
	}
	updated, err := h.Plans.Update(r.Context(), input.ID, fields)
	if err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "plan_name_taken", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if updated == nil {
		httpx.JSONError(w, http.StatusNotFound, "plan_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

// Delete succeeds even when clients still reference the plan; their stored
// membership_plan string is left as-is (documented dangling reference).
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !authorize(h.Gate, w, r, gate.ActionDelete, "plan") {
		return
	}
	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Plans.Delete(r.Context(), input.ID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
