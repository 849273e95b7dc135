package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/policy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.Plan{}, &models.Client{},
		&models.Project{}, &models.Task{}, &models.Notification{}, &models.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, roleName string) *models.User {
	t.Helper()
	role := models.Role{Name: roleName}
	if err := db.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
		t.Fatalf("role: %v", err)
	}
	user := models.User{Email: email, Password: "x", Name: "Test", RoleID: role.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("user: %v", err)
	}
	return &user
}

func asUser(r *http.Request, uid uint) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), uid))
}

func TestClientCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test", "admin")
	h := NewClientHandler(db, policy.NewGate(db))

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":"Carmen","email":"carmen@test.com","lead_source":"referido"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asUser(req, admin.ID)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}

	req2 := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req2 = asUser(req2, admin.ID)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
	var payload struct {
		Items []models.Client `json:"items"`
		Total int64           `json:"total"`
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Items) != 1 {
		t.Fatalf("expected 1 client got %d", len(payload.Items))
	}
	if payload.Items[0].Status != models.StatusPorVisitar {
		t.Fatalf("new clients must start in por_visitar, got %s", payload.Items[0].Status)
	}
}

func TestClientCreateValidationShortCircuits(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test", "admin")
	h := NewClientHandler(db, policy.NewGate(db))

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":"","email":""}`))
	req = asUser(req, admin.ID)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	// no store interaction happened
	var count int64
	db.Model(&models.Client{}).Count(&count)
	if count != 0 {
		t.Fatalf("validation failure must not write, found %d rows", count)
	}
}

func TestClientWriteForbiddenForClientRole(t *testing.T) {
	db := setupTestDB(t)
	viewer := seedUser(t, db, "viewer@test", "client")
	h := NewClientHandler(db, policy.NewGate(db))

	req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":"X","email":"x@test.com"}`))
	req = asUser(req, viewer.ID)
	w := httptest.NewRecorder()
	h.Create(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}

	// reads stay open to the client role
	req2 := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req2 = asUser(req2, viewer.ID)
	w2 := httptest.NewRecorder()
	h.List(w2, req2)
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w2.Code)
	}
}

func TestClientStatusEndpointRejectsIllegalTransition(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test", "admin")
	h := NewClientHandler(db, policy.NewGate(db))

	client := models.Client{Name: "Leo", Email: "leo@test.com", Status: models.StatusInactivo}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	body := `{"client_id":"` + client.ID + `","new_status":"en_proceso"}`
	req := httptest.NewRequest(http.MethodPost, "/clients/status", strings.NewReader(body))
	req = asUser(req, admin.ID)
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "invalid_transition") {
		t.Fatalf("expected invalid_transition error, got %s", w.Body.String())
	}
}

func TestClientStatusEndpointConfirmsPlan(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test", "admin")
	h := NewClientHandler(db, policy.NewGate(db))

	plan := models.Plan{Name: "Básico", Price: 150}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatalf("plan: %v", err)
	}
	client := models.Client{Name: "Ana", Email: "ana@test.com", Status: models.StatusPendiente}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}

	body := `{"client_id":"` + client.ID + `","new_status":"plan_confirmado","plan_id":"` + plan.ID + `","plan_start_date":"2024-04-01"}`
	req := httptest.NewRequest(http.MethodPost, "/clients/status", strings.NewReader(body))
	req = asUser(req, admin.ID)
	w := httptest.NewRecorder()
	h.UpdateStatus(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		TasksCreated int `json:"tasks_created"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.TasksCreated != 6 {
		t.Fatalf("expected 6 templated tasks got %d", payload.TasksCreated)
	}
}

func TestClientDuplicateEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	admin := seedUser(t, db, "admin@test", "admin")
	h := NewClientHandler(db, policy.NewGate(db))

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(`{"name":"Dup","email":"dup@test.com"}`))
		req = asUser(req, admin.ID)
		w := httptest.NewRecorder()
		h.Create(w, req)
		if w.Code != want {
			t.Fatalf("call %d: expected %d got %d", i, want, w.Code)
		}
	}
}
