package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/cache"
	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

// publishEvent pushes a lifecycle event onto the audit queue. Best-effort:
// the transition is already committed, a full queue just loses an audit row.
func publishEvent(r *http.Request, eventType string, req *models.SwapRequest) {
	event := models.RequestEvent{
		RequestID: req.ID,
		EventType: eventType,
		FromUser:  req.FromUser,
		ToUser:    req.ToUser,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := cache.PublishRequestEvent(r.Context(), event); err != nil {
		log.WithError(err).WithField("request_id", req.ID).Warn("failed to publish request event")
	}
}

type sendRequestBody struct {
	ToUserID string `json:"toUserId"`
	Message  string `json:"message"`
}

// SendRequestHandler creates a pending swap request addressed to another
// user. Self-requests and duplicate pending requests are rejected.
func SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	fromUser, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body sendRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	toUser, err := uuid.Parse(body.ToUserID)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid toUserId")
		return
	}
	if fromUser == toUser {
		writeMessage(w, http.StatusBadRequest, "You cannot send a request to yourself")
		return
	}

	req, err := database.SendSwapRequest(r.Context(), fromUser, toUser, body.Message)
	if err != nil {
		if errors.Is(err, database.ErrDuplicatePending) {
			writeMessage(w, http.StatusBadRequest, "Request already pending")
			return
		}
		log.WithError(err).Error("failed to send swap request")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	publishEvent(r, models.EventRequestSent, req)
	writeJSON(w, http.StatusCreated, req)
}

// ListMadeHandler returns the requests the caller has sent, newest first,
// denormalized with each recipient's profile.
func ListMadeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := database.ListRequestsMade(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list requests made")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// ListReceivedHandler returns the requests addressed to the caller, newest
// first, denormalized with each sender's profile.
func ListReceivedHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	cards, err := database.ListRequestsReceived(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list requests received")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

type updateStatusBody struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	Message string              `json:"message"`
	Request *models.SwapRequest `json:"request"`
}

// UpdateRequestStatusHandler lets the recipient of a pending request accept
// or reject it. Any other caller, and any request no longer pending, gets
// the same 404.
func UpdateRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body updateStatusBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !models.ValidDecision(body.Status) {
		writeMessage(w, http.StatusBadRequest, "Invalid status")
		return
	}
	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := database.UpdateRequestStatus(r.Context(), requestID, userID, body.Status)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Request not found or not pending")
			return
		}
		log.WithError(err).Error("failed to update request status")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if body.Status == models.RequestAccepted {
		publishEvent(r, models.EventRequestAccepted, req)
	} else {
		publishEvent(r, models.EventRequestRejected, req)
	}
	writeJSON(w, http.StatusOK, updateStatusResponse{
		Message: "Request " + body.Status,
		Request: req,
	})
}

// WithdrawRequestHandler lets the sender delete their own still-pending
// request. Decided requests are history and cannot be withdrawn.
func WithdrawRequestHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	requestID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request id")
		return
	}

	req, err := database.WithdrawRequest(r.Context(), requestID, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Request not found or not pending")
			return
		}
		log.WithError(err).Error("failed to withdraw request")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	publishEvent(r, models.EventRequestWithdrawn, req)
	writeMessage(w, http.StatusOK, "Request withdrawn")
}
