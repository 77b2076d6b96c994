package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/skillswap-app/skillswap/internal/auth"
)

// These tests exercise the boundary validation that runs before any storage
// access, so they need no database.

func authedRequest(t *testing.T, method, target, body string, userID uuid.UUID) *http.Request {
	t.Helper()
	token, err := auth.CreateToken(userID.String())
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Cookie", "auth_token="+token)
	return req
}

func TestSendRequestRequiresAuth(t *testing.T) {
	auth.Init()

	req := httptest.NewRequest("POST", "/requests", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	SendRequestHandler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendRequestRejectsBadToken(t *testing.T) {
	auth.Init()

	req := httptest.NewRequest("POST", "/requests", bytes.NewBufferString(`{}`))
	req.Header.Set("Cookie", "auth_token=bogus")
	w := httptest.NewRecorder()
	SendRequestHandler(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendRequestRejectsSelfRequest(t *testing.T) {
	auth.Init()
	userID := uuid.New()

	body := `{"toUserId":"` + userID.String() + `","message":"hi"}`
	req := authedRequest(t, "POST", "/requests", body, userID)
	w := httptest.NewRecorder()
	SendRequestHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for self-request, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSendRequestRejectsMalformedRecipient(t *testing.T) {
	auth.Init()

	req := authedRequest(t, "POST", "/requests", `{"toUserId":"not-a-uuid"}`, uuid.New())
	w := httptest.NewRecorder()
	SendRequestHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed recipient, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateStatusRejectsInvalidStatus(t *testing.T) {
	auth.Init()

	for _, status := range []string{"pending", "withdrawn", "ACCEPTED", ""} {
		body := `{"status":"` + status + `"}`
		req := authedRequest(t, "PUT", "/requests/abc/status", body, uuid.New())
		req.SetPathValue("id", uuid.New().String())
		w := httptest.NewRecorder()
		UpdateRequestStatusHandler(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status %q: expected 400, got %d: %s", status, w.Code, w.Body.String())
		}
	}
}

func TestUpdateStatusRejectsMalformedID(t *testing.T) {
	auth.Init()

	req := authedRequest(t, "PUT", "/requests/abc/status", `{"status":"accepted"}`, uuid.New())
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	UpdateRequestStatusHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d: %s", w.Code, w.Body.String())
	}
}

func TestWithdrawRejectsMalformedID(t *testing.T) {
	auth.Init()

	req := authedRequest(t, "DELETE", "/requests/abc", "", uuid.New())
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()
	WithdrawRequestHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d: %s", w.Code, w.Body.String())
	}
}
