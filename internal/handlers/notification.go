package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"gorm.io/gorm"
)

// NotificationHandler serves the persisted dashboard notifications that the
// lifecycle manager emits on transitions. Scoped to the session user.
type NotificationHandler struct {
	DB *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{DB: db}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var rows []models.Notification
	q := h.DB.WithContext(r.Context()).Where("user_id = ?", uid)
	if r.URL.Query().Get("unread") == "1" {
		q = q.Where("read = ?", false)
	}
	if err := q.Order("created_at desc").Limit(100).Find(&rows).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_notifications", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	var input struct {
		ID uint `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.ID == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", input.ID, uid).
		Update("read", true)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "notification_not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "read"})
}
