package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"faqchat-backend/internal/handlers"
	"faqchat-backend/internal/middleware"
)

func New(
	sessionAuth *middleware.SessionAuth,
	authHandler *handlers.AuthHandler,
	conversationHandler *handlers.ConversationHandler,
	chatHandler *handlers.ChatHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
			})

			// Logout is idempotent and needs no live session
			r.Get("/logout", authHandler.Logout)
		})

		// ──── Protected Routes ────
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", conversationHandler.List)
				r.Post("/", conversationHandler.Create)
				r.Get("/{id}", conversationHandler.Get)
				r.Put("/{id}/title", conversationHandler.RenameTitle)
			})

			r.Post("/ask", chatHandler.Ask)
		})
	})

	return r
}
