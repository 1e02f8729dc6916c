// internal/api/router.go
package api

import (
	"net/http"
	"time"

	"leadcredit/internal/api/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterOptions configures the router's protective middleware.
type RouterOptions struct {
	AdminUser      string
	AdminPassword  string
	QuoteRateLimit float64 // requests per second per client IP
	QuoteBurst     int
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(
	leadHandler *handler.LeadHandler,
	walletHandler *handler.WalletHandler,
	adminHandler *handler.AdminHandler,
	opts RouterOptions,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	quoteLimiter := newIPRateLimiter(opts.QuoteRateLimit, opts.QuoteBurst, 3*time.Minute)
	r.With(quoteLimiter.middleware).Get("/quote", leadHandler.Quote)

	// Buyer routes
	r.Group(func(r chi.Router) {
		r.Use(requireBuyer)

		r.Get("/leads", leadHandler.ListLeads)
		r.Post("/leads/{leadID}/purchase", leadHandler.Purchase)

		r.Route("/wallet", func(r chi.Router) {
			r.Get("/balance", walletHandler.GetWalletBalance)
			r.Get("/transactions", walletHandler.GetTransactionHistory)
			r.Get("/dashboard", walletHandler.GetDashboard)
		})
	})

	// Operator routes are only mounted when credentials are configured.
	if opts.AdminUser != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("leadcredit-admin", map[string]string{opts.AdminUser: opts.AdminPassword}))

			r.Post("/buyers", adminHandler.CreateBuyer)
			r.Post("/leads", adminHandler.CreateLead)
			r.Post("/leads/{leadID}/hide", adminHandler.HideLead)
			r.Post("/leads/{leadID}/show", adminHandler.ShowLead)
			r.Post("/wallets/{ownerID}/recharge", adminHandler.Recharge)
			r.Post("/wallets/{ownerID}/adjust", adminHandler.Adjust)
			r.Get("/wallets/{ownerID}/verify", adminHandler.VerifyLedger)
		})
	} else {
		logger.Warn("admin routes disabled: ADMIN_USER is not set")
	}

	return r
}
