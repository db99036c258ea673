package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for ContactSubmissions
const (
	OutcomeRejected      = "rejected"
	OutcomeUnconfigured  = "unconfigured"
	OutcomePersistFailed = "persist_failed"
	OutcomeNotifyFailed  = "notify_failed"
	OutcomeNotified      = "notified"
)

var (
	ContactSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "contact_submissions_total", Help: "Contact submissions by terminal outcome."},
		[]string{"outcome"},
	)
	ContactStepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "portfolio", Name: "contact_step_duration_seconds", Help: "Duration of contact pipeline steps.", Buckets: prometheus.DefBuckets},
		[]string{"step"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ContactSubmissions)
	reg.MustRegister(ContactStepDuration)
}
