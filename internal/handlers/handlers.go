// Package handlers holds the HTTP layer: JSON decode, validation, gate
// checks, then delegation to the stores and the lifecycle manager.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/academicpa/skyflow-backoffice/internal/auth"
	"github.com/academicpa/skyflow-backoffice/internal/gate"
	"github.com/academicpa/skyflow-backoffice/internal/httpx"
)

// authorize runs the gate for the session user and writes 403 on denial.
func authorize(g *gate.Gate[uint], w http.ResponseWriter, r *http.Request, action gate.Action, resourceType string) bool {
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := g.Authorize(r.Context(), uid, action, resourceType, nil); err != nil {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return false
	}
	return true
}

// pageParams reads limit/page query params with the usual bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			offset = (n - 1) * limit
		}
	}
	return limit, offset
}

// isDuplicate spots unique-constraint violations across the postgres and
// sqlite drivers.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "duplicate key")
}
