package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyapaari/collect-backend/api/controllers"
	"github.com/vyapaari/collect-backend/api/middleware"
	"github.com/vyapaari/collect-backend/internal/ledger"
	"github.com/vyapaari/collect-backend/internal/payments"
	"github.com/vyapaari/collect-backend/internal/vendors"
	"github.com/vyapaari/collect-backend/internal/voice"
	"github.com/vyapaari/collect-backend/pkg/config"
	"github.com/vyapaari/collect-backend/pkg/logger"
	pkgredis "github.com/vyapaari/collect-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

// RouterParams groups everything the HTTP surface depends on.
type RouterParams struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *pkgredis.Client
	Registry *prometheus.Registry

	Vendors  vendors.Service
	Payments payments.Service
	Ledger   ledger.Service
	Voice    voice.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(),
	)

	paymentsPolicy := middleware.NewRateLimitPolicy(
		"payments",
		p.Config.Payments.RateLimitWindow,
		p.Config.Payments.RateLimitCount,
	)

	var redisPing pinger
	if p.Redis != nil {
		redisPing = p.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.DB, redisPing, p.Logger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.VendorList(p.Vendors, p.Logger))
			r.Post("/", controllers.VendorCreate(p.Vendors, p.Logger))
			r.Get("/{vendorId}", controllers.VendorGet(p.Vendors, p.Logger))
		})

		r.Route("/payments", func(r chi.Router) {
			if p.Redis != nil {
				r.Use(middleware.Idempotency(p.Redis, p.Logger))
				r.Use(middleware.RateLimit(paymentsPolicy, p.Redis, p.Logger))
			}
			r.Post("/", controllers.PaymentCreate(p.Payments, p.Logger))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionList(p.Ledger, p.Logger))
			r.Get("/summary", controllers.TransactionSummary(p.Ledger, p.Logger))
			r.Get("/stream", controllers.TransactionStream(p.Ledger, p.Logger))
			r.Get("/{transactionId}", controllers.TransactionGet(p.Ledger, p.Logger))
		})

		r.Route("/voice/sessions", func(r chi.Router) {
			r.Post("/", controllers.VoiceSessionStart(p.Voice, p.Logger))
			r.Post("/{sessionId}/result", controllers.VoiceSessionResult(p.Voice, p.Logger))
			r.Post("/{sessionId}/stop", controllers.VoiceSessionStop(p.Voice, p.Logger))
		})
	})

	return r
}
