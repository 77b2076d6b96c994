package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

// GetMessagesHandler returns the full conversation between the caller and a
// peer, oldest first. Clients poll this endpoint.
func GetMessagesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	peerID, err := uuid.Parse(r.PathValue("peerId"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid peer id")
		return
	}

	msgs, err := database.ListConversation(r.Context(), userID, peerID)
	if err != nil {
		log.WithError(err).Error("failed to list conversation")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type sendMessageBody struct {
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
}

// SendMessageHandler stores a direct message to a connected peer.
func SendMessageHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body sendMessageBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	receiverID, err := uuid.Parse(body.ReceiverID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid receiverId")
		return
	}
	if body.Text == "" {
		writeMessage(w, http.StatusBadRequest, "message text required")
		return
	}

	connected, err := database.ArePeers(r.Context(), userID, receiverID)
	if err != nil {
		log.WithError(err).Error("failed to check peer relation")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if !connected {
		writeMessage(w, http.StatusForbidden, "You can only message connected peers")
		return
	}

	msg := models.Message{
		Sender:   userID,
		Receiver: receiverID,
		Text:     body.Text,
	}
	if err := database.InsertMessage(r.Context(), &msg); err != nil {
		log.WithError(err).Error("failed to send message")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
