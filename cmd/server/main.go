// cmd/server/main.go
package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/skillswap-app/skillswap/internal/auth"
	"github.com/skillswap-app/skillswap/internal/cache"
	"github.com/skillswap-app/skillswap/internal/database"
	"github.com/skillswap-app/skillswap/internal/handlers"
	"github.com/skillswap-app/skillswap/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	if err := cache.ConnectRedis(); err != nil {
		// The service runs without Redis: the unread counter falls back to
		// COUNT queries and lifecycle events are not audited.
		logger.WithError(err).Warn("redis unavailable, running without cache")
		cache.Rdb = nil
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("SkillSwap API up"))
	})

	// auth
	authLimit := middleware.RateLimit(5, 10)
	mux.Handle("POST /auth/signup", authLimit(http.HandlerFunc(handlers.SignupHandler)))
	mux.Handle("POST /auth/login", authLimit(http.HandlerFunc(handlers.LoginHandler)))

	// profile
	mux.HandleFunc("GET /profile", handlers.GetProfileHandler)
	mux.HandleFunc("PUT /profile", handlers.UpdateProfileHandler)

	// users and peers
	mux.HandleFunc("GET /users", handlers.ListUsersHandler)
	mux.HandleFunc("GET /users/peers", handlers.ListPeersHandler)

	// swap requests
	mux.HandleFunc("POST /requests", handlers.SendRequestHandler)
	mux.HandleFunc("GET /requests/made", handlers.ListMadeHandler)
	mux.HandleFunc("GET /requests/received", handlers.ListReceivedHandler)
	mux.HandleFunc("PUT /requests/{id}/status", handlers.UpdateRequestStatusHandler)
	mux.HandleFunc("DELETE /requests/{id}", handlers.WithdrawRequestHandler)

	// notifications
	mux.HandleFunc("GET /notifications", handlers.ListNotificationsHandler)
	mux.HandleFunc("PUT /notifications/read", handlers.MarkAllReadHandler)
	mux.HandleFunc("GET /notifications/unread", handlers.UnreadCountHandler)

	// communities and posts
	mux.HandleFunc("POST /communities", handlers.CreateCommunityHandler)
	mux.HandleFunc("GET /communities", handlers.ListCommunitiesHandler)
	mux.HandleFunc("DELETE /communities/{id}", handlers.DeleteCommunityHandler)
	mux.HandleFunc("GET /community-posts/{name}", handlers.ListCommunityPostsHandler)
	mux.HandleFunc("POST /community-posts", handlers.CreatePostHandler)
	mux.HandleFunc("PUT /community-posts/{id}/react", handlers.ReactToPostHandler)
	mux.HandleFunc("POST /community-posts/{id}/comments", handlers.AddCommentHandler)

	// direct messages (polled)
	mux.HandleFunc("GET /messages/{peerId}", handlers.GetMessagesHandler)
	mux.HandleFunc("POST /messages", handlers.SendMessageHandler)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, middleware.LogMiddleware(logger)(mux)); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
