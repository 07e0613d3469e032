package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/market-notify-api/internal/application/alert"
	"github.com/market-notify-api/internal/application/movers"
	"github.com/market-notify-api/internal/application/news"
	"github.com/market-notify-api/internal/application/notification"
	"github.com/market-notify-api/internal/application/pricealert"
	"github.com/market-notify-api/internal/application/recap"
	"github.com/market-notify-api/internal/config"
	"github.com/market-notify-api/internal/transport/http/handler"
	appmiddleware "github.com/market-notify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Scheduler-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	schedulerAuth := appmiddleware.SchedulerAuth(cfg.SchedulerSecret)

	// 5 requests/second, burst of 10. A second line of defense on the
	// trigger surface against a misfiring scheduler.
	jobRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	alertSvc := alert.NewService(deps.AlertRepo)
	notifSvc := notification.NewService(deps.NotificationRepo)
	priceAlertSvc := pricealert.NewService(pricealert.ServiceDeps{
		AlertRepo:        deps.AlertRepo,
		NotificationRepo: deps.NotificationRepo,
		Fetcher:          deps.MarketClient,
		Push:             deps.Push,
		SymbolPacing:     cfg.Jobs.SymbolPacing,
	})
	moverSvc := movers.NewService(deps.MarketClient, deps.SentRepo, deps.Push, cfg.Jobs)
	newsSvc := news.NewService(deps.MarketClient, deps.SentRepo, deps.Push, cfg.Jobs)
	recapSvc := recap.NewService(deps.MarketClient, deps.SentRepo, deps.Push)

	healthH := handler.NewHealthHandler()
	jobH := handler.NewJobHandler(priceAlertSvc, moverSvc, newsSvc, recapSvc)
	alertH := handler.NewAlertHandler(alertSvc)
	notifH := handler.NewNotificationHandler(notifSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		// ── Scheduler-secret protected routes ────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(schedulerAuth)

			r.With(jobRL.Limit).Route("/jobs", func(r chi.Router) {
				r.Post("/price-alerts", jobH.PriceAlerts)
				r.Post("/market-movers", jobH.MarketMovers)
				r.Post("/market-news", jobH.MarketNews)
				r.Post("/daily-recap", jobH.DailyRecap)
			})

			r.Post("/alerts", alertH.Create)
			r.Get("/alerts", alertH.List)
			r.Put("/alerts/{id}/activate", alertH.Activate)
			r.Put("/alerts/{id}/deactivate", alertH.Deactivate)
			r.Delete("/alerts/{id}", alertH.Delete)

			r.Get("/notifications", notifH.ListUnread)
			r.Put("/notifications/{id}", notifH.MarkAsRead)
		})
	})

	return r
}
