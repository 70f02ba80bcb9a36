package handlers

import (
	"net/http"

	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/middleware"
	"social-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Services bundles everything the HTTP layer calls into
type Services struct {
	Users      *services.UserService
	Graph      *services.GraphService
	Posts      *services.PostService
	Feed       *services.FeedService
	Engagement *services.EngagementService
	Aggregator *services.EngagementAggregator
	Hub        *services.WSHub
}

// NewRouter wires the API routes. m may be nil, in which case /metrics is
// not served.
func NewRouter(svc Services, m *metrics.Metrics) http.Handler {
	userHandler := NewUserHandler(svc.Users, svc.Posts)
	graphHandler := NewGraphHandler(svc.Graph)
	postHandler := NewPostHandler(svc.Posts, svc.Aggregator)
	engagementHandler := NewEngagementHandler(svc.Engagement)
	feedHandler := NewFeedHandler(svc.Feed)
	wsHandler := NewWebSocketHandler(svc.Hub, svc.Posts)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(m.Middleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)
		r.Get("/users/{user_id}", userHandler.GetProfile)
		r.Get("/users/{user_id}/posts", userHandler.GetUserPosts)
		r.Get("/users/{user_id}/followers", graphHandler.Followers)
		r.Get("/users/{user_id}/following", graphHandler.Following)
		r.Get("/posts/{post_id}", postHandler.GetPost)
		r.Get("/posts/{post_id}/likes", postHandler.GetLikes)
		r.Get("/posts/{post_id}/comments", postHandler.GetComments)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(svc.Users))
			r.Post("/posts", postHandler.CreatePost)
			r.Get("/posts", postHandler.Explore)
			r.Get("/me/posts", userHandler.GetMyPosts)
			r.Get("/feed", feedHandler.GetFeed)
			r.Post("/users/{user_id}/follow", graphHandler.Follow)
			r.Delete("/users/{user_id}/follow", graphHandler.Unfollow)
			r.Post("/posts/{post_id}/like", engagementHandler.Like)
			r.Delete("/posts/{post_id}/like", engagementHandler.Unlike)
			r.Post("/posts/{post_id}/comments", engagementHandler.Comment)
		})
	})

	r.Get("/ws", wsHandler.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if m != nil {
		r.Handle("/metrics", m.Handler())
	}

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
