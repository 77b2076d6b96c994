package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

// TestSignupAndLoginFlow covers registration, duplicate email rejection, and
// credential checks end to end.
func TestSignupAndLoginFlow(t *testing.T) {
	requireTestDB(t)

	email := fmt.Sprintf("kim-%s@example.com", uuid.New().String()[:8])
	signupBody := fmt.Sprintf(`{"name":"kim","email":"%s","password":"hunter22","skills":["Design"]}`, email)

	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewBufferString(signupBody))
	w := httptest.NewRecorder()
	SignupHandler(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created authResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode signup response: %v", err)
	}
	if created.Token == "" || created.User.Email != email {
		t.Fatalf("unexpected signup response: %+v", created)
	}

	// same email again
	req2 := httptest.NewRequest("POST", "/auth/signup", bytes.NewBufferString(signupBody))
	w2 := httptest.NewRecorder()
	SignupHandler(w2, req2)
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d: %s", w2.Code, w2.Body.String())
	}

	// wrong password
	badLogin := fmt.Sprintf(`{"email":"%s","password":"wrong"}`, email)
	req3 := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(badLogin))
	w3 := httptest.NewRecorder()
	LoginHandler(w3, req3)
	if w3.Code != http.StatusBadRequest {
		t.Fatalf("bad login: expected 400, got %d: %s", w3.Code, w3.Body.String())
	}

	// correct credentials, and the token works against an authed endpoint
	goodLogin := fmt.Sprintf(`{"email":"%s","password":"hunter22"}`, email)
	req4 := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(goodLogin))
	w4 := httptest.NewRecorder()
	LoginHandler(w4, req4)
	if w4.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w4.Code, w4.Body.String())
	}
	var logged authResponse
	if err := json.Unmarshal(w4.Body.Bytes(), &logged); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	req5 := httptest.NewRequest("GET", "/profile", nil)
	req5.Header.Set("Authorization", "Bearer "+logged.Token)
	w5 := httptest.NewRecorder()
	GetProfileHandler(w5, req5)
	if w5.Code != http.StatusOK {
		t.Fatalf("profile with bearer token: expected 200, got %d: %s", w5.Code, w5.Body.String())
	}
}
