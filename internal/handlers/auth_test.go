package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignupBootstrapsAdmin(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"first@test.com","password":"secret1","name":"First"}`))
	w := httptest.NewRecorder()
	h.Signup(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", w.Code, w.Body.String())
	}
	var payload struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Role != "admin" {
		t.Fatalf("first user must bootstrap as admin, got %q", payload.Role)
	}

	// second signup gets the client role
	req2 := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"second@test.com","password":"secret2"}`))
	w2 := httptest.NewRecorder()
	h.Signup(w2, req2)
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w2.Code)
	}
	if err := json.Unmarshal(w2.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Role != "client" {
		t.Fatalf("expected client role, got %q", payload.Role)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"u@test.com","password":"correct"}`))
	w := httptest.NewRecorder()
	h.Signup(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d", w.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"u@test.com","password":"wrong"}`))
	w2 := httptest.NewRecorder()
	h.Login(w2, req2)
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w2.Code)
	}

	req3 := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"u@test.com","password":"correct"}`))
	w3 := httptest.NewRecorder()
	h.Login(w3, req3)
	if w3.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w3.Code)
	}
	found := false
	for _, c := range w3.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatal("login must set a session cookie")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	h := NewAuthHandler(db)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"dup@test.com","password":"secret"}`))
		w := httptest.NewRecorder()
		h.Signup(w, req)
		if w.Code != want {
			t.Fatalf("call %d: expected %d got %d", i, want, w.Code)
		}
	}
}
