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

// ListCommunityPostsHandler returns a community's approved posts, newest
// first, with authors, reactions, and comments.
func ListCommunityPostsHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	name := r.PathValue("name")
	community, err := database.GetCommunityByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Community not found")
			return
		}
		log.WithError(err).Error("failed to load community")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	posts, err := database.ListPostsByCommunity(r.Context(), community.ID)
	if err != nil {
		log.WithError(err).Error("failed to list posts")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

type createPostBody struct {
	CommunityName string `json:"communityName"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl"`
}

// CreatePostHandler publishes a post to a community. A post needs text or an
// image; communities with post approval hold it as pending.
func CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body createPostBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.CommunityName == "" {
		writeMessage(w, http.StatusBadRequest, "communityName required")
		return
	}
	if body.Content == "" && body.ImageURL == "" {
		writeMessage(w, http.StatusBadRequest, "Post must have text or image")
		return
	}

	community, err := database.GetCommunityByName(r.Context(), body.CommunityName)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Community not found")
			return
		}
		log.WithError(err).Error("failed to load community")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	status := models.PostApproved
	if community.RequiresPostApproval {
		status = models.PostPending
	}

	post, err := database.InsertPost(r.Context(), community.ID, userID, body.Content, body.ImageURL, status)
	if err != nil {
		log.WithError(err).Error("failed to create post")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

type reactBody struct {
	Type string `json:"type"`
}

type reactResponse struct {
	Reactions map[string]int `json:"reactions"`
}

// ReactToPostHandler toggles or switches the caller's reaction on a post.
func ReactToPostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body reactBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if !models.IsReactionType(body.Type) {
		writeMessage(w, http.StatusBadRequest, "Invalid reaction")
		return
	}
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid post id")
		return
	}

	reactions, err := database.ReactToPost(r.Context(), postID, userID, body.Type)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			writeMessage(w, http.StatusNotFound, "Post not found")
		case errors.Is(err, database.ErrPostPending):
			writeMessage(w, http.StatusBadRequest, "Cannot react to pending posts")
		default:
			log.WithError(err).Error("failed to react to post")
			writeMessage(w, http.StatusInternalServerError, "Server error")
		}
		return
	}
	writeJSON(w, http.StatusOK, reactResponse{Reactions: reactions})
}

type commentBody struct {
	Text string `json:"text"`
}

type commentResponse struct {
	Comments []models.Comment `json:"comments"`
}

// AddCommentHandler appends a comment to a post and returns the full comment
// list.
func AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body commentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	text := strings.TrimSpace(body.Text)
	if text == "" {
		writeMessage(w, http.StatusBadRequest, "Comment text required")
		return
	}
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := database.AddComment(r.Context(), postID, userID, text)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "Post not found")
			return
		}
		log.WithError(err).Error("failed to add comment")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{Comments: comments})
}
