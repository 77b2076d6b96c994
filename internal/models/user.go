package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Name     string    `json:"name"`

	AvatarURL  string   `json:"avatarUrl"`
	Bio        string   `json:"bio"`
	Community  string   `json:"community"`
	SkillsHave []string `json:"skillsHave"`
	SkillsWant []string `json:"skillsWant"`

	CreatedAt time.Time `json:"createdAt"`
}

// Profile is the public view of a user: everything except credentials.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	AvatarURL  string    `json:"avatarUrl"`
	Bio        string    `json:"bio"`
	Community  string    `json:"community"`
	SkillsHave []string  `json:"skillsHave"`
	SkillsWant []string  `json:"skillsWant"`
}

// Peer is the slim card shown in a user's connections list.
type Peer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	Bio       string    `json:"bio"`
}

// Avatar returns the stored avatar URL, falling back to a deterministic
// generated avatar seeded by the user's name.
func Avatar(avatarURL, name string) string {
	if avatarURL != "" {
		return avatarURL
	}
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}

// PrimarySkill picks the headline skill for a user card: the first skill
// they can teach, or "General" if they listed none.
func PrimarySkill(skillsHave []string) string {
	if len(skillsHave) > 0 {
		return skillsHave[0]
	}
	return "General"
}
