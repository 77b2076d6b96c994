package models

import (
	"time"

	"github.com/google/uuid"
)

// PredefinedSkills are the only values accepted as a community's primary
// skill.
var PredefinedSkills = []string{
	"Web Development",
	"Design",
	"Data Science",
	"Machine Learning",
	"Business",
	"Cloud",
	"Cybersecurity",
	"Mobile",
	"DevOps",
}

// IsPredefinedSkill reports whether s is one of the platform's skill
// categories.
func IsPredefinedSkill(s string) bool {
	for _, p := range PredefinedSkills {
		if p == s {
			return true
		}
	}
	return false
}

type Community struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"communityName"`
	PrimarySkill string    `json:"primarySkill"`
	Description  string    `json:"description"`
	Purpose      string    `json:"purpose"`    // Learn | Teach | Learn & Teach | Collaborate
	Visibility   string    `json:"visibility"` // Public | Private | Request-based
	Guidelines   string    `json:"guidelines"`
	CreatedBy    uuid.UUID `json:"createdBy"`
	Status       string    `json:"status"` // Active | Inactive
	BannerURL    string    `json:"bannerUrl"`
	LogoURL      string    `json:"logoUrl"`
	Tags         []string  `json:"tags"`

	RequiresJoinApproval bool `json:"requiresJoinApproval"`
	RequiresPostApproval bool `json:"requiresPostApproval"`

	CreatedAt time.Time `json:"createdAt"`
}
