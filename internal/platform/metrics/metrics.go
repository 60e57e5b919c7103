package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	AdmissionsTotal  *prometheus.CounterVec
	MagicLinksSent   prometheus.Counter
	WebhooksTotal    *prometheus.CounterVec
	SessionsReaped   prometheus.Counter
	AdminLoginsTotal *prometheus.CounterVec
}

// Admission outcomes recorded on AdmissionsTotal.
const (
	OutcomeAdmitted = "admitted"
	OutcomeReused   = "reused"
	OutcomeRejected = "rejected"
)

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		AdmissionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamgate_admissions_total",
			Help: "Session admission decisions by outcome",
		}, []string{"outcome"}),
		MagicLinksSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamgate_magic_links_sent_total",
			Help: "Magic-link emails handed to the delivery service",
		}),
		WebhooksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamgate_payment_webhooks_total",
			Help: "Inbound payment webhooks by result",
		}, []string{"result"}),
		SessionsReaped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "streamgate_sessions_reaped_total",
			Help: "Sessions deactivated by the idle reaper",
		}),
		AdminLoginsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "streamgate_admin_logins_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),
	}
}

// ObserveAdmission records one admission decision.
func (m *Metrics) ObserveAdmission(outcome string) {
	if m == nil {
		return
	}
	m.AdmissionsTotal.WithLabelValues(outcome).Inc()
}
