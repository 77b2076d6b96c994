package models

import (
	"time"

	"github.com/google/uuid"
)

// Swap request statuses. A request starts pending; accepted and rejected are
// terminal. Withdrawal deletes the row instead of adding a fourth state.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// ValidDecision reports whether s is a status the recipient may move a
// pending request to.
func ValidDecision(s string) bool {
	return s == RequestAccepted || s == RequestRejected
}

type SwapRequest struct {
	ID        uuid.UUID `json:"id"`
	FromUser  uuid.UUID `json:"fromUser"`
	ToUser    uuid.UUID `json:"toUser"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RequestCard is a swap request denormalized with the counterparty's public
// profile, shaped for the made/received request lists.
type RequestCard struct {
	ID           uuid.UUID `json:"id"`
	RequestID    uuid.UUID `json:"requestId"`
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Bio          string    `json:"bio"`
	SkillsHave   []string  `json:"skillsHave"`
	PrimarySkill string    `json:"primarySkill"`
	Rating       float64   `json:"rating"`
	Community    string    `json:"community"`
	Status       string    `json:"status"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
}
