package handlers

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/cache"
	"github.com/skillswap-app/skillswap/internal/database"
)

// ListNotificationsHandler returns the caller's notification log, newest
// first. Clients poll this; there is no push channel.
func ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	notifs, err := database.ListNotifications(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list notifications")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, notifs)
}

// MarkAllReadHandler flips every unread notification to read. Read state is
// all-or-nothing; there is no per-notification endpoint.
func MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := database.MarkAllNotificationsRead(r.Context(), userID); err != nil {
		log.WithError(err).Error("failed to mark notifications read")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Notifications marked as read")
}

type unreadCountResponse struct {
	Count int64 `json:"count"`
}

// UnreadCountHandler serves the cached unread-notification count, falling
// back to a COUNT query (and re-priming the cache) on a miss.
func UnreadCountHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if count, hit := cache.GetUnread(r.Context(), userID); hit {
		writeJSON(w, http.StatusOK, unreadCountResponse{Count: count})
		return
	}

	count, err := database.CountUnreadNotifications(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to count unread notifications")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if cerr := cache.SetUnread(r.Context(), userID, count); cerr != nil {
		log.WithError(cerr).Debug("failed to prime unread counter")
	}
	writeJSON(w, http.StatusOK, unreadCountResponse{Count: count})
}
