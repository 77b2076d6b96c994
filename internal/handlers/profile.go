package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

// GetProfileHandler returns the caller's own profile.
func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := database.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.WithError(err).Error("failed to load profile")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, models.Profile{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		AvatarURL:  user.AvatarURL,
		Bio:        user.Bio,
		Community:  user.Community,
		SkillsHave: user.SkillsHave,
		SkillsWant: user.SkillsWant,
	})
}

type updateProfileBody struct {
	Name       *string  `json:"name"`
	Email      *string  `json:"email"`
	Bio        *string  `json:"bio"`
	AvatarURL  *string  `json:"avatarUrl"`
	Community  *string  `json:"community"`
	SkillsHave []string `json:"skillsHave"`
	SkillsWant []string `json:"skillsWant"`
}

// UpdateProfileHandler applies a partial update to the caller's profile.
// Absent fields are left untouched.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body updateProfileBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}

	profile, err := database.UpdateProfile(r.Context(), userID, database.ProfileUpdate{
		Name:       body.Name,
		Email:      body.Email,
		Bio:        body.Bio,
		AvatarURL:  body.AvatarURL,
		Community:  body.Community,
		SkillsHave: body.SkillsHave,
		SkillsWant: body.SkillsWant,
	})
	if err != nil {
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Email already in use")
		case errors.Is(err, database.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			log.WithError(err).Error("failed to update profile")
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
