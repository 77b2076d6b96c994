package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skillswap-app/skillswap/internal/auth"
)

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// bearerToken pulls the session token from the auth_token cookie or an
// Authorization: Bearer header, cookie first.
func bearerToken(r *http.Request) string {
	if cookieHeader := r.Header.Get("Cookie"); strings.Contains(cookieHeader, "auth_token=") {
		return extractCookieToken(cookieHeader, "auth_token")
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// requireUser resolves the acting user's identity from the request or writes
// the appropriate auth failure. Every handler below trusts the identity this
// returns; nothing reads ambient session state.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	token := bearerToken(r)
	if token == "" {
		writeMessage(w, http.StatusUnauthorized, "missing auth token")
		return uuid.Nil, false
	}

	userIDStr, err := auth.VerifyToken(token)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "invalid token")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		writeMessage(w, http.StatusForbidden, "invalid user id in token")
		return uuid.Nil, false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeMessage responds with the {"message": "..."} body shape used across
// the API for confirmations and errors.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
