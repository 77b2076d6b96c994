package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/database"
)

// ListUsersHandler returns everyone except the caller, for the discovery
// page.
func ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	users, err := database.ListUsersExcept(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list users")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ListPeersHandler returns the caller's connected peers. The peer relation
// is only ever grown by request acceptance.
func ListPeersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	peers, err := database.ListPeers(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list peers")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, peers)
}
