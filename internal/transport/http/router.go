package http

import (
	"context"
	"net/http"

	"github.com/alquila-alerts/internal/application/alert"
	"github.com/alquila-alerts/internal/application/notification"
	"github.com/alquila-alerts/internal/application/settings"
	"github.com/alquila-alerts/internal/config"
	"github.com/alquila-alerts/internal/domain"
	"github.com/alquila-alerts/internal/transport/http/handler"
	appmiddleware "github.com/alquila-alerts/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all dependencies for the router.
type Deps struct {
	Runner           AlertRunner
	Templates        TemplateCatalogue
	SettingsRepo     SettingsRepository
	OwnerRepo        OwnerDirectory
	NotificationRepo NotificationRepository
	ObjectStore      ObjectStore
	Channel          alert.DispatchChannel
	Mailer           alert.Mailer
	Verifier         appmiddleware.TokenVerifier
}

// NewRouter builds and returns the application router. ctx bounds background work
// owned by the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 1 request/second, burst of 3: test sends and manual runs reach external APIs.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(1), 3)

	settingsSvc := settings.NewService(deps.SettingsRepo, deps.OwnerRepo, deps.Channel, deps.Mailer)
	notifSvc := notification.NewService(deps.NotificationRepo, deps.ObjectStore)

	healthH := handler.NewHealthHandler()
	alertH := handler.NewAlertHandler(deps.Runner, deps.Templates)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.Verifier))

			r.Get("/alerts/settings", settingsH.Get)
			r.Put("/alerts/settings", settingsH.Update)
			r.With(sensitiveRL.Limit).Post("/alerts/settings/test", settingsH.SendTest)
			r.Get("/alerts/templates", alertH.Templates)
			r.Get("/alerts/history", notifH.History)
			r.With(sensitiveRL.Limit).Post("/alerts/history/export", notifH.Export)
			r.Get("/notifications/{id}", notifH.Get)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.With(sensitiveRL.Limit).Post("/alerts/run", alertH.Run)
			})
		})
	})

	return r
}
