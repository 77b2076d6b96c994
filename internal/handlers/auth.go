package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/auth"
	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/models"
)

type signupRequest struct {
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Skills    []string `json:"skills"`
	AvatarURL string   `json:"avatarUrl"`
}

type authUser struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Skills    []string `json:"skills"`
	AvatarURL string   `json:"avatarUrl"`
}

type authResponse struct {
	User  authUser `json:"user"`
	Token string   `json:"token"`
}

func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		MaxAge:   auth.TokenTTLSeconds,
	})
}

// SignupHandler registers a new account and logs it in.
func SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	user := models.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		AvatarURL:  req.AvatarURL,
		SkillsHave: req.Skills,
	}

	if err := database.CreateUser(r.Context(), &user); err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			writeMessage(w, http.StatusBadRequest, "Email already registered")
			return
		}
		log.WithError(err).Error("failed to create user")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	token, err := auth.CreateToken(user.ID.String())
	if err != nil {
		log.WithError(err).Error("failed to create session token")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	setAuthCookie(w, token)

	writeJSON(w, http.StatusCreated, authResponse{
		User: authUser{
			ID:        user.ID.String(),
			Name:      user.Name,
			Email:     user.Email,
			Skills:    user.SkillsHave,
			AvatarURL: user.AvatarURL,
		},
		Token: token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler checks credentials and returns a session token, also set as
// an HttpOnly cookie.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid payload")
		return
	}

	user, err := database.AuthenticateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := auth.CreateToken(user.ID.String())
	if err != nil {
		log.WithError(err).Error("failed to create session token")
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	setAuthCookie(w, token)

	writeJSON(w, http.StatusOK, authResponse{
		User: authUser{
			ID:        user.ID.String(),
			Name:      user.Name,
			Email:     user.Email,
			Skills:    user.SkillsHave,
			AvatarURL: user.AvatarURL,
		},
		Token: token,
	})
}
