package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/policy"
	"github.com/academicpa/skyflow-backoffice/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler { return &AuthHandler{DB: db} }

func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/signup", h.Signup)
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)
}

// Signup creates a user. The very first user becomes admin (bootstrap);
// everyone after that gets the client role.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Required("password", input.Password, v)
	if input.Email != "" {
		validation.Email("email", input.Email, v)
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	roleName := policy.RoleClient
	var count int64
	if err := h.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	if count == 0 {
		roleName = policy.RoleAdmin
	}
	var role models.Role
	if err := h.DB.Where(models.Role{Name: roleName}).FirstOrCreate(&role).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "hash_error", nil)
		return
	}
	user := models.User{Email: input.Email, Password: string(hash), Name: input.Name, RoleID: role.ID}
	if err := h.DB.Create(&user).Error; err != nil {
		if isDuplicate(err) {
			httpx.JSONError(w, http.StatusConflict, "email_already_exists", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "store_error", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, map[string]any{"id": user.ID, "email": user.Email, "role": roleName})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	var user models.User
	if err := h.DB.Preload("Role").First(&user, "email = ?", input.Email).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, map[string]any{"id": user.ID, "email": user.Email, "role": user.Role.Name})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearSession(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
