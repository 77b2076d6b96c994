package models

import "github.com/google/uuid"

// Request lifecycle event types, one per transition the engine performs.
const (
	EventRequestSent      = "request_sent"
	EventRequestAccepted  = "request_accepted"
	EventRequestRejected  = "request_rejected"
	EventRequestWithdrawn = "request_withdrawn"
)

// RequestEvent is what the API pushes onto the Redis audit queue after a
// lifecycle transition commits. The auditor worker drains the queue into the
// request_events table.
type RequestEvent struct {
	RequestID uuid.UUID `json:"request_id"`
	EventType string    `json:"event_type"`
	FromUser  uuid.UUID `json:"from_user"`
	ToUser    uuid.UUID `json:"to_user"`
	Timestamp int64     `json:"timestamp"`
}
