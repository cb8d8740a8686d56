package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dailylaw/ledge-backend/internal/config"
	"github.com/dailylaw/ledge-backend/internal/transport/middleware"
)

// Handlers is the full set of route handlers.
type Handlers struct {
	Health     *HealthHandler
	Cron       *CronHandler
	Subscriber *SubscriberHandler
	Explore    *ExploreHandler
	Article    *ArticleHandler
}

// RouterConfig carries the settings the router applies itself.
type RouterConfig struct {
	CORS       config.CORSConfig
	CronSecret string
	ExploreRPM int
	Limiter    *middleware.RateLimiter
	// Cookie decodes the identity cookie; nil reads it as a plain email.
	Cookie     middleware.CookieCodec
}

// NewRouter mounts every route. Middleware runs in the order added.
func NewRouter(h Handlers, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	r.Get("/live", h.Health.Live)
	r.Get("/ready", h.Health.Ready)
	r.Get("/health", h.Health.Health)

	r.Route("/cron", func(r chi.Router) {
		r.Use(middleware.CronAuth(cfg.CronSecret))

		trigger := func(path string, fn http.HandlerFunc) {
			r.Get(path, fn)
			r.Post(path, fn)
		}
		trigger("/ingest/federal", h.Cron.IngestFederal)
		trigger("/ingest/state", h.Cron.IngestState)
		trigger("/score", h.Cron.Score)
		trigger("/bill-status", h.Cron.BillStatus)
		trigger("/alerts", h.Cron.Alerts)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.Cookie))

		r.Post("/onboarding", h.Subscriber.Onboard)

		r.Get("/articles", h.Article.List)
		r.Get("/articles/{slug}", h.Article.Get)

		r.With(cfg.Limiter.Limit(cfg.ExploreRPM)).Post("/explore", h.Explore.Explore)

		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.RequireSubscriber)

			r.Get("/", h.Subscriber.Me)
			r.Patch("/settings", h.Subscriber.UpdateSettings)
			r.Post("/interests", h.Subscriber.AddInterest)
			r.Delete("/interests/{topic}", h.Subscriber.RemoveInterest)
			r.Get("/matches", h.Subscriber.Matches)
			r.Post("/matches/backfill", h.Subscriber.Backfill)
			r.Get("/starred", h.Subscriber.Starred)
			r.Put("/starred/{billID}", h.Subscriber.Star)
			r.Delete("/starred/{billID}", h.Subscriber.Unstar)
			r.Post("/starred/{billID}/dismiss", h.Subscriber.DismissUpdate)
		})
	})

	return r
}
