package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rsharma/socialnet/internal/api/handlers"
	"github.com/rsharma/socialnet/internal/api/middleware"
	"github.com/rsharma/socialnet/internal/identity"
	"github.com/rsharma/socialnet/internal/realtime"
	"github.com/rsharma/socialnet/internal/service"
)

func NewRouter(services *service.Services, hub *realtime.Hub, verifier *identity.Verifier) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.User, verifier)
	userHandler := handlers.NewUserHandler(services.User)
	followHandler := handlers.NewFollowHandler(services.Graph)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Session)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users", authHandler.CreateUser)
		r.Get("/users/username-status/{username}", userHandler.CheckUsernameStatus)

		// Session-guarded routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Session))

			r.Post("/auth/logout", authHandler.Logout)

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.GetUserInfo)
				r.Get("/me/basic", userHandler.GetUserBasicInfo)
				r.Patch("/me", userHandler.UpdateProfile)
				r.Delete("/me", userHandler.DeleteUser)
				r.Get("/username/{username}", userHandler.GetUserInfoByUsername)

				r.Post("/{id}/follow", followHandler.Follow)
				r.Post("/{id}/unfollow", followHandler.Unfollow)
				r.Get("/{id}/followers", followHandler.ListFollowers)
				r.Get("/{id}/following", followHandler.ListFollowing)
				r.Get("/{id}/follow-status", followHandler.CheckFollowStatus)
			})

			r.Get("/recommendations/{sectionTag}", followHandler.GetRecommendedUsers)
		})

		// WebSocket endpoint (token via query parameter)
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
