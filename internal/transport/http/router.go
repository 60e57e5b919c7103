// Package httptransport is the thin HTTP layer. Handlers validate input and
// delegate to domain services; transport concerns stay out of business logic.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"streamgate/internal/admin"
	"streamgate/internal/adminauth"
	"streamgate/internal/magiclink"
	"streamgate/internal/payment"
	"streamgate/internal/platform/metrics"
	"streamgate/internal/session"
)

// Handler bundles the domain services behind the HTTP surface.
type Handler struct {
	magic         *magiclink.Service
	gate          *session.Gate
	sessions      *session.Manager
	admins        *admin.Service
	guard         *adminauth.Guard
	payments      *payment.Service
	metrics       *metrics.Metrics
	logger        *slog.Logger
	webhookSecret string
}

func NewHandler(
	magic *magiclink.Service,
	gate *session.Gate,
	sessions *session.Manager,
	admins *admin.Service,
	guard *adminauth.Guard,
	payments *payment.Service,
	m *metrics.Metrics,
	logger *slog.Logger,
	webhookSecret string,
) *Handler {
	return &Handler{
		magic:         magic,
		gate:          gate,
		sessions:      sessions,
		admins:        admins,
		guard:         guard,
		payments:      payments,
		metrics:       m,
		logger:        logger,
		webhookSecret: webhookSecret,
	}
}

// NewRouter wires all endpoints. Admin routes sit behind the auth guard;
// everything admin-facing calls it before any mutation.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestMeta)
	r.Use(RequestLogger(h.logger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/magic-link", h.handleMagicLink)
		r.Post("/verify", h.handleVerify)
		r.Post("/validate-session", h.handleValidateSession)
		r.Post("/logout", h.handleLogout)
	})

	r.Post("/admin/login", h.handleAdminLogin)
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuth)
		r.Post("/admin/logout", h.handleAdminLogout)
		r.Get("/admin/sessions", h.handleAdminSessions)
		r.Delete("/admin/sessions/{id}", h.handleAdminRevokeSession)
		r.Get("/admin/payments", h.handleAdminPayments)
	})

	r.Post("/webhooks/payment", h.handlePaymentWebhook)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
