package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types. The notification log is written only by the request
// lifecycle: one entry when a request arrives, one when it is accepted.
const (
	NotifRequestReceived = "request_received"
	NotifRequestAccepted = "request_accepted"
)

type Notification struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	RelatedUser uuid.UUID `json:"relatedUser"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt"`

	// Denormalized from the related user for display.
	RelatedName   string `json:"relatedName,omitempty"`
	RelatedAvatar string `json:"relatedAvatar,omitempty"`
}
