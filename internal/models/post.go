package models

import (
	"time"

	"github.com/google/uuid"
)

// ReactionTypes are the reactions a post supports. A user holds at most one
// reaction per post; repeating it toggles it off, choosing another replaces it.
var ReactionTypes = []string{"like", "love", "celebrate", "insightful", "funny"}

// IsReactionType reports whether s names a supported reaction.
func IsReactionType(s string) bool {
	for _, r := range ReactionTypes {
		if r == s {
			return true
		}
	}
	return false
}

// Post statuses: posts in communities that require approval start pending.
const (
	PostApproved = "approved"
	PostPending  = "pending"
)

type PostAuthor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
}

type Comment struct {
	Author    PostAuthor `json:"author"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Post struct {
	ID        uuid.UUID      `json:"id"`
	Author    PostAuthor     `json:"author"`
	Content   string         `json:"content"`
	ImageURL  string         `json:"imageUrl"`
	Reactions map[string]int `json:"reactions"`
	Comments  []Comment      `json:"comments"`
	Status    string         `json:"status,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
