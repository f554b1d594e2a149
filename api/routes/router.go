package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusprint/campusprint-backend/api/controllers"
	"github.com/campusprint/campusprint-backend/api/middleware"
	"github.com/campusprint/campusprint-backend/internal/auth"
	"github.com/campusprint/campusprint-backend/internal/files"
	"github.com/campusprint/campusprint-backend/internal/merchants"
	"github.com/campusprint/campusprint-backend/internal/orders"
	"github.com/campusprint/campusprint-backend/internal/profiles"
	"github.com/campusprint/campusprint-backend/pkg/auth/session"
	"github.com/campusprint/campusprint-backend/pkg/config"
	"github.com/campusprint/campusprint-backend/pkg/db"
	"github.com/campusprint/campusprint-backend/pkg/logger"
	"github.com/campusprint/campusprint-backend/pkg/metrics"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Pingers         map[string]db.Pinger
	SessionChecker  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProfileService  profiles.Service
	MerchantService merchants.Service
	OrderService    orders.Service
	FileService     files.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/me", controllers.ProfileMe(deps.ProfileService, logg))
			r.Patch("/me", controllers.ProfileUpdate(deps.ProfileService, logg))
		})

		r.Route("/merchants", func(r chi.Router) {
			r.Get("/", controllers.MerchantList(deps.MerchantService, logg))
			r.Get("/{merchantId}", controllers.MerchantDetail(deps.MerchantService, logg))
			r.With(middleware.RequireMerchant(logg)).Post("/", controllers.MerchantCreate(deps.MerchantService, logg))
			r.With(middleware.RequireMerchant(logg)).Patch("/{merchantId}", controllers.MerchantUpdate(deps.MerchantService, logg))
			r.With(middleware.RequireMerchant(logg)).Get("/{merchantId}/orders", controllers.MerchantOrderQueue(deps.OrderService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(deps.OrderService, logg))
			r.Get("/", controllers.OrderList(deps.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
			r.Patch("/{orderId}", controllers.OrderUpdate(deps.OrderService, logg))
			r.Patch("/{orderId}/status", controllers.OrderUpdateStatus(deps.OrderService, logg))
		})

		r.Route("/files", func(r chi.Router) {
			r.Post("/presign-upload", controllers.FilePresignUpload(deps.FileService, logg))
			r.Post("/presign-download", controllers.FilePresignDownload(deps.FileService, logg))
		})
	})

	return r
}
