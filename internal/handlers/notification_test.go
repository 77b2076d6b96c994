package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skillswap-app/skillswap/internal/models"
)

// TestMarkAllReadIsIdempotent checks that mark-all-read works repeatedly,
// including on an empty notification set, and that the unread count settles
// at zero.
func TestMarkAllReadIsIdempotent(t *testing.T) {
	requireTestDB(t)

	ivy := createTestUser(t, "ivy")
	jack := createTestUser(t, "jack")

	markAllRead := func(u models.User) *httptest.ResponseRecorder {
		req := authedRequest(t, "PUT", "/notifications/read", "", u.ID)
		rec := httptest.NewRecorder()
		MarkAllReadHandler(rec, req)
		return rec
	}
	unreadCount := func(u models.User) int64 {
		req := authedRequest(t, "GET", "/notifications/unread", "", u.ID)
		rec := httptest.NewRecorder()
		UnreadCountHandler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unread count: expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp unreadCountResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode unread count: %v", err)
		}
		return resp.Count
	}

	// empty set: not an error
	if rec := markAllRead(jack); rec.Code != http.StatusOK {
		t.Fatalf("mark-all-read on empty set: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if w, _ := sendSwap(t, ivy, jack, "let's swap"); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if n := unreadCount(jack); n != 1 {
		t.Fatalf("expected 1 unread, got %d", n)
	}

	if rec := markAllRead(jack); rec.Code != http.StatusOK {
		t.Fatalf("mark-all-read: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := unreadCount(jack); n != 0 {
		t.Fatalf("expected 0 unread after mark-all-read, got %d", n)
	}

	// second call has no additional effect
	if rec := markAllRead(jack); rec.Code != http.StatusOK {
		t.Fatalf("second mark-all-read: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if n := unreadCount(jack); n != 0 {
		t.Fatalf("expected 0 unread after repeat, got %d", n)
	}

	// the entries themselves survive, flipped to read
	notifs := listNotifs(t, jack)
	if len(notifs) != 1 || !notifs[0].Read {
		t.Fatalf("expected 1 read notification, got %+v", notifs)
	}
}
