// Package api wires the relay's HTTP surface onto a chi router.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/relaychat/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/relaychat/internal/api/middleware"
)

// Deps are the collaborators NewRouter needs.
type Deps struct {
	Relay  handlers.ChatRelay
	Logger zerolog.Logger

	// RateLimitRPS throttles /api routes when positive.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apmiddleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	// Health check, used by load balancers and probes
	r.Get("/health", handlers.NewHealthHandler().Health)

	chatHandler := handlers.NewChatHandler(deps.Relay)
	r.Route("/api", func(r chi.Router) {
		r.Use(apmiddleware.RateLimit(deps.RateLimitRPS, deps.RateLimitBurst))
		r.Post("/chat", chatHandler.Chat) // POST /api/chat
	})

	return r
}
