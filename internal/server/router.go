package server

import (
	"context"
	"net/http"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/handlers"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
	"github.com/academicpa/skyflow-backoffice/internal/models"
	"github.com/academicpa/skyflow-backoffice/internal/policy"
	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	g := policy.NewGate(db)

	protect := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(auth.RequireAuth(h))
	}
	crud := func(list, create http.HandlerFunc) http.Handler {
		return protect(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		})
	}

	// Client endpoints, including the lifecycle transition route.
	ch := handlers.NewClientHandler(db, g)
	mux.Handle("/clients", crud(ch.List, ch.Create))
	mux.Handle("/clients/get", protect(ch.Get))
	mux.Handle("/clients/update", protect(ch.Update))
	mux.Handle("/clients/delete", protect(ch.Delete))
	mux.Handle("/clients/status", protect(ch.UpdateStatus))

	// Project endpoints (tasks embedded on read)
	ph := handlers.NewProjectHandler(db, g)
	mux.Handle("/projects", crud(ph.List, ph.Create))
	mux.Handle("/projects/update", protect(ph.Update))
	mux.Handle("/projects/delete", protect(ph.Delete))

	// Task endpoints
	th := handlers.NewTaskHandler(db, g)
	mux.Handle("/tasks", crud(th.List, th.Create))
	mux.Handle("/tasks/update", protect(th.Update))
	mux.Handle("/tasks/delete", protect(th.Delete))

	// Plan catalog
	plh := handlers.NewPlanHandler(db, g)
	mux.Handle("/plans", crud(plh.List, plh.Create))
	mux.Handle("/plans/update", protect(plh.Update))
	mux.Handle("/plans/delete", protect(plh.Delete))

	// Notifications
	nh := handlers.NewNotificationHandler(db)
	mux.Handle("/notifications", protect(nh.List))
	mux.Handle("/notifications/read", protect(nh.MarkRead))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Skyflow Back-Office API")); werr != nil {
			_ = werr
		}
	})

	return mux
}
