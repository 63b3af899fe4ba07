package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReconciliationPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderer_reconciliation_passes_total",
		Help: "The total number of reconciliation passes",
	}, []string{"result"})

	ReconciliationMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderer_reconciliation_mutations_total",
		Help: "The total number of remote ACL mutations attempted",
	}, []string{"action", "result"})

	WandererRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wanderer_request_duration_seconds",
		Help:    "Duration of Wanderer API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	WandererRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wanderer_requests_total",
		Help: "Total number of Wanderer API requests",
	}, []string{"endpoint", "status"})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_notifications_sent_total",
		Help: "Total number of Discord failure notifications sent",
	}, []string{"status"})
)
