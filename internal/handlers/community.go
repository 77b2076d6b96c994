package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

type createCommunityBody struct {
	CommunityName        string      `json:"communityName"`
	PrimarySkill         string      `json:"primarySkill"`
	Description          string      `json:"description"`
	Purpose              string      `json:"purpose"`
	Visibility           string      `json:"visibility"`
	Guidelines           string      `json:"guidelines"`
	Status               string      `json:"status"`
	BannerURL            string      `json:"bannerUrl"`
	LogoURL              string      `json:"logoUrl"`
	Tags                 interface{} `json:"tags"`
	RequiresJoinApproval bool        `json:"requiresJoinApproval"`
	RequiresPostApproval bool        `json:"requiresPostApproval"`
}

// normalizeTags accepts either an array of tags or a comma-separated string.
func normalizeTags(raw interface{}) []string {
	switch v := raw.(type) {
	case []interface{}:
		tags := []string{}
		for _, t := range v {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				tags = append(tags, strings.TrimSpace(s))
			}
		}
		return tags
	case string:
		if strings.TrimSpace(v) == "" {
			return []string{}
		}
		parts := strings.Split(v, ",")
		tags := []string{}
		for _, p := range parts {
			if t := strings.TrimSpace(p); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	default:
		return []string{}
	}
}

// CreateCommunityHandler creates a topical community. The primary skill must
// be one of the platform's predefined categories.
func CreateCommunityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body createCommunityBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.CommunityName == "" || body.PrimarySkill == "" || body.Description == "" ||
		body.Purpose == "" || body.Visibility == "" || body.Guidelines == "" {
		writeMessage(w, http.StatusBadRequest, "All mandatory fields are required")
		return
	}
	if !models.IsPredefinedSkill(body.PrimarySkill) {
		writeMessage(w, http.StatusBadRequest, "Invalid primary skill")
		return
	}

	status := body.Status
	if status == "" {
		status = "Active"
	}

	community := models.Community{
		Name:                 body.CommunityName,
		PrimarySkill:         body.PrimarySkill,
		Description:          body.Description,
		Purpose:              body.Purpose,
		Visibility:           body.Visibility,
		Guidelines:           body.Guidelines,
		CreatedBy:            userID,
		Status:               status,
		BannerURL:            body.BannerURL,
		LogoURL:              body.LogoURL,
		Tags:                 normalizeTags(body.Tags),
		RequiresJoinApproval: body.RequiresJoinApproval,
		RequiresPostApproval: body.RequiresPostApproval,
	}

	if err := database.InsertCommunity(r.Context(), &community); err != nil {
		if errors.Is(err, database.ErrCommunityExists) {
			writeMessage(w, http.StatusBadRequest, "Community name already exists")
			return
		}
		log.WithError(err).Error("failed to create community")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, community)
}

// ListCommunitiesHandler returns every community, newest first.
func ListCommunitiesHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	communities, err := database.ListCommunities(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list communities")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, communities)
}

// DeleteCommunityHandler removes a community. Only its creator may.
func DeleteCommunityHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	communityID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid community id")
		return
	}

	community, err := database.GetCommunityByID(r.Context(), communityID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Community not found")
			return
		}
		log.WithError(err).Error("failed to load community")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	if community.CreatedBy != userID {
		writeMessage(w, http.StatusForbidden, "Not authorized to delete this community")
		return
	}

	if err := database.DeleteCommunity(r.Context(), communityID); err != nil {
		log.WithError(err).Error("failed to delete community")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Community deleted")
}
