package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	// RateLimitRPS throttles the credential endpoints per client IP.
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(h *Handlers, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	limiter := newIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r.Route("/api", func(r chi.Router) {
		// Credential endpoints take the brunt of abusive traffic.
		r.Group(func(r chi.Router) {
			r.Use(limiter.middleware)
			r.Post("/register", h.register)
			r.Post("/login", h.login)
		})

		r.Post("/entries", h.logEntry)
		r.Get("/entries", h.entries)
		r.Get("/entries/history", h.entryHistory)
		r.Get("/squares", h.squares)
		r.Get("/users", h.users)

		r.Post("/change-username", h.changeUsername)
		r.Get("/username-change-info", h.usernameChangeInfo)

		r.Get("/leaderboard", h.leaderboard)
		r.Get("/square-leaderboard", h.squareLeaderboard)
		r.Get("/extended-square-leaderboard", h.extendedSquareLeaderboard)
		r.Get("/invite-leaderboard", h.inviteLeaderboard)
		r.Get("/voronoi-leaderboard", h.voronoiLeaderboard)
	})

	return r
}
