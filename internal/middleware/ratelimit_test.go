package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limited := RateLimit(1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("POST", "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("first two requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests && codes[3] != http.StatusTooManyRequests {
		t.Fatalf("burst overflow should be rejected, got %v", codes)
	}
}

func TestRateLimitIsPerIP(t *testing.T) {
	limited := RateLimit(1, 1)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	first := httptest.NewRequest("POST", "/auth/login", nil)
	first.RemoteAddr = "10.0.0.2:1111"
	w1 := httptest.NewRecorder()
	limited.ServeHTTP(w1, first)

	// a different client gets its own bucket
	second := httptest.NewRequest("POST", "/auth/login", nil)
	second.RemoteAddr = "10.0.0.3:2222"
	w2 := httptest.NewRecorder()
	limited.ServeHTTP(w2, second)

	if w1.Code != http.StatusOK || w2.Code != http.StatusOK {
		t.Fatalf("independent clients should both pass, got %d and %d", w1.Code, w2.Code)
	}
}

func TestIdleEntriesSweptOnLookup(t *testing.T) {
	l := newIPLimiter(1, 1)
	l.get("10.0.0.4")

	// backdate both the entry and the last sweep so the next lookup sweeps
	l.mu.Lock()
	l.limiters["10.0.0.4"].lastSeen = time.Now().Add(-10 * time.Minute)
	l.lastSweep = time.Now().Add(-2 * time.Minute)
	l.mu.Unlock()

	l.get("10.0.0.5")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.limiters["10.0.0.4"]; ok {
		t.Fatal("idle entry should have been swept")
	}
	if _, ok := l.limiters["10.0.0.5"]; !ok {
		t.Fatal("fresh entry should survive the sweep")
	}
}
