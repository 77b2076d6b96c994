package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/skillswap-app/skillswap/internal/auth"
	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

// The flow tests below run against a real database, like the rest of the
// integration suite. They skip when no test database is configured.

var dbOnce sync.Once

func requireTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv("DATABASE_URL") == "" && os.Getenv("PG_HOST") == "" {
		t.Skip("no test database configured")
	}
	dbOnce.Do(func() {
		auth.Init()
		database.ConnectDB()
	})
}

// createTestUser inserts a user directly in the DB with a unique email.
func createTestUser(t *testing.T, name string) models.User {
	t.Helper()
	u := models.User{
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.New().String()[:8]),
		Password: "password",
		Name:     name,
	}
	if err := database.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return u
}

func sendSwap(t *testing.T, from, to models.User, message string) (*httptest.ResponseRecorder, models.SwapRequest) {
	t.Helper()
	body := `{"toUserId":"` + to.ID.String() + `","message":"` + message + `"}`
	req := authedRequest(t, "POST", "/requests", body, from.ID)
	w := httptest.NewRecorder()
	SendRequestHandler(w, req)

	var created models.SwapRequest
	if w.Code == http.StatusCreated {
		if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
	}
	return w, created
}

func decide(t *testing.T, requestID uuid.UUID, actor models.User, status string) *httptest.ResponseRecorder {
	t.Helper()
	req := authedRequest(t, "PUT", "/requests/"+requestID.String()+"/status", `{"status":"`+status+`"}`, actor.ID)
	req.SetPathValue("id", requestID.String())
	w := httptest.NewRecorder()
	UpdateRequestStatusHandler(w, req)
	return w
}

func listCards(t *testing.T, user models.User, handler http.HandlerFunc, path string) []models.RequestCard {
	t.Helper()
	req := authedRequest(t, "GET", path, "", user.ID)
	w := httptest.NewRecorder()
	handler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from %s, got %d: %s", path, w.Code, w.Body.String())
	}
	var cards []models.RequestCard
	if err := json.Unmarshal(w.Body.Bytes(), &cards); err != nil {
		t.Fatalf("failed to decode cards: %v", err)
	}
	return cards
}

func listNotifs(t *testing.T, user models.User) []models.Notification {
	t.Helper()
	req := authedRequest(t, "GET", "/notifications", "", user.ID)
	w := httptest.NewRecorder()
	ListNotificationsHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from notifications, got %d: %s", w.Code, w.Body.String())
	}
	var notifs []models.Notification
	if err := json.Unmarshal(w.Body.Bytes(), &notifs); err != nil {
		t.Fatalf("failed to decode notifications: %v", err)
	}
	return notifs
}

// TestAcceptFlow walks the happy path: send, duplicate rejection, the
// denormalized lists on both sides, acceptance, the symmetric peer link, and
// the notification fan-out.
func TestAcceptFlow(t *testing.T) {
	requireTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	w, created := sendSwap(t, alice, bob, "teach me guitar")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if created.Status != models.RequestPending {
		t.Fatalf("new request should be pending, got %q", created.Status)
	}

	// a second send while the first is pending must fail
	w2, _ := sendSwap(t, alice, bob, "second try")
	if w2.Code != http.StatusBadRequest {
		t.Fatalf("duplicate pending send: expected 400, got %d: %s", w2.Code, w2.Body.String())
	}

	received := listCards(t, bob, ListReceivedHandler, "/requests/received")
	if len(received) != 1 {
		t.Fatalf("expected exactly 1 received request, got %d", len(received))
	}
	if received[0].UserID != alice.ID || received[0].Message != "teach me guitar" || received[0].Status != models.RequestPending {
		t.Fatalf("unexpected received card: %+v", received[0])
	}

	made := listCards(t, alice, ListMadeHandler, "/requests/made")
	if len(made) != 1 || made[0].UserID != bob.ID || made[0].Message != "teach me guitar" {
		t.Fatalf("unexpected made cards: %+v", made)
	}

	bobNotifs := listNotifs(t, bob)
	if len(bobNotifs) != 1 || bobNotifs[0].Type != models.NotifRequestReceived || bobNotifs[0].Read {
		t.Fatalf("expected 1 unread request_received notification, got %+v", bobNotifs)
	}
	if bobNotifs[0].RelatedUser != alice.ID {
		t.Fatalf("notification should name the sender, got %v", bobNotifs[0].RelatedUser)
	}

	w3 := decide(t, created.ID, bob, models.RequestAccepted)
	if w3.Code != http.StatusOK {
		t.Fatalf("accept: expected 200, got %d: %s", w3.Code, w3.Body.String())
	}

	alicePeers, err := database.ListPeers(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListPeers failed: %v", err)
	}
	bobPeers, err := database.ListPeers(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("ListPeers failed: %v", err)
	}
	if len(alicePeers) != 1 || alicePeers[0].ID != bob.ID {
		t.Fatalf("alice should have exactly bob as peer, got %+v", alicePeers)
	}
	if len(bobPeers) != 1 || bobPeers[0].ID != alice.ID {
		t.Fatalf("bob should have exactly alice as peer, got %+v", bobPeers)
	}

	aliceNotifs := listNotifs(t, alice)
	if len(aliceNotifs) != 1 || aliceNotifs[0].Type != models.NotifRequestAccepted {
		t.Fatalf("expected 1 request_accepted notification for alice, got %+v", aliceNotifs)
	}

	// a second decision on the same request races against history: 404
	w4 := decide(t, created.ID, bob, models.RequestAccepted)
	if w4.Code != http.StatusNotFound {
		t.Fatalf("second accept: expected 404, got %d: %s", w4.Code, w4.Body.String())
	}

	// and the repeat must not have duplicated peers or notifications
	alicePeers, _ = database.ListPeers(context.Background(), alice.ID)
	if len(alicePeers) != 1 {
		t.Fatalf("peer set duplicated on repeat accept: %+v", alicePeers)
	}
	if notifs := listNotifs(t, alice); len(notifs) != 1 {
		t.Fatalf("notification duplicated on repeat accept: %+v", notifs)
	}
}

// TestRejectFlow checks that rejection is terminal and side-effect free.
func TestRejectFlow(t *testing.T) {
	requireTestDB(t)

	carol := createTestUser(t, "carol")
	dan := createTestUser(t, "dan")

	w, created := sendSwap(t, carol, dan, "swap for design help?")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w2 := decide(t, created.ID, dan, models.RequestRejected)
	if w2.Code != http.StatusOK {
		t.Fatalf("reject: expected 200, got %d: %s", w2.Code, w2.Body.String())
	}

	carolPeers, err := database.ListPeers(context.Background(), carol.ID)
	if err != nil {
		t.Fatalf("ListPeers failed: %v", err)
	}
	if len(carolPeers) != 0 {
		t.Fatalf("rejection must not create peers, got %+v", carolPeers)
	}
	if notifs := listNotifs(t, carol); len(notifs) != 0 {
		t.Fatalf("rejection must not notify the sender, got %+v", notifs)
	}

	made := listCards(t, carol, ListMadeHandler, "/requests/made")
	if len(made) != 1 || made[0].Status != models.RequestRejected {
		t.Fatalf("request should remain, rejected: %+v", made)
	}

	// terminal: no further transitions
	w3 := decide(t, created.ID, dan, models.RequestAccepted)
	if w3.Code != http.StatusNotFound {
		t.Fatalf("decide after reject: expected 404, got %d: %s", w3.Code, w3.Body.String())
	}

	// a resolved request no longer blocks a new send
	w4, _ := sendSwap(t, carol, dan, "one more try")
	if w4.Code != http.StatusCreated {
		t.Fatalf("send after rejection: expected 201, got %d: %s", w4.Code, w4.Body.String())
	}
}

// TestWithdrawFlow checks sender-only withdrawal of pending requests.
func TestWithdrawFlow(t *testing.T) {
	requireTestDB(t)

	erin := createTestUser(t, "erin")
	frank := createTestUser(t, "frank")

	w, created := sendSwap(t, erin, frank, "trade cloud for mobile tips")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	withdraw := func(actor models.User) *httptest.ResponseRecorder {
		req := authedRequest(t, "DELETE", "/requests/"+created.ID.String(), "", actor.ID)
		req.SetPathValue("id", created.ID.String())
		rec := httptest.NewRecorder()
		WithdrawRequestHandler(rec, req)
		return rec
	}

	// the recipient cannot withdraw, and learns nothing
	if rec := withdraw(frank); rec.Code != http.StatusNotFound {
		t.Fatalf("recipient withdraw: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := withdraw(erin); rec.Code != http.StatusOK {
		t.Fatalf("sender withdraw: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// the request is gone for every subsequent operation
	if rec := withdraw(erin); rec.Code != http.StatusNotFound {
		t.Fatalf("second withdraw: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := decide(t, created.ID, frank, models.RequestAccepted); rec.Code != http.StatusNotFound {
		t.Fatalf("decide after withdraw: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if made := listCards(t, erin, ListMadeHandler, "/requests/made"); len(made) != 0 {
		t.Fatalf("withdrawn request still listed: %+v", made)
	}
}

// TestThirdPartyCannotDecide checks the ownership conflation: a bystander
// gets the same 404 as a missing request.
func TestThirdPartyCannotDecide(t *testing.T) {
	requireTestDB(t)

	gina := createTestUser(t, "gina")
	hank := createTestUser(t, "hank")
	mallory := createTestUser(t, "mallory")

	w, created := sendSwap(t, gina, hank, "devops for data science")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	if rec := decide(t, created.ID, mallory, models.RequestAccepted); rec.Code != http.StatusNotFound {
		t.Fatalf("third party decide: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	// the sender cannot decide their own request either
	if rec := decide(t, created.ID, gina, models.RequestAccepted); rec.Code != http.StatusNotFound {
		t.Fatalf("sender decide: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}
