// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadcredit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadcredit_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadcredit_purchases_total",
			Help: "Lead purchases by outcome",
		},
		[]string{"outcome"},
	)

	PurchaseRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcredit_purchase_retries_total",
			Help: "Units of work retried after a lock or serialization conflict",
		},
	)

	CreditsConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcredit_credits_consumed_total",
			Help: "Credits debited by committed purchases",
		},
	)

	QuotesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leadcredit_quotes_total",
			Help: "Price previews served",
		},
	)

	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadcredit_ledger_entries_total",
			Help: "Committed credit ledger entries by kind",
		},
		[]string{"kind"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadcredit_notifications_total",
			Help: "Allocation notifications by status",
		},
		[]string{"status"},
	)
)

// Purchase outcomes.
const (
	OutcomeCommitted           = "committed"
	OutcomeReplayed            = "replayed"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeCapacityExceeded    = "capacity_exceeded"
	OutcomeAlreadyExclusive    = "already_exclusive"
	OutcomeAlreadyAllocated    = "already_allocated"
	OutcomeNotFound            = "not_found"
	OutcomeInvalid             = "invalid"
	OutcomeTransient           = "transient"
	OutcomeError               = "error"
)

// Notification statuses.
const (
	NotificationQueued  = "queued"
	NotificationSent    = "sent"
	NotificationRetried = "retried"
	NotificationFailed  = "failed"
	NotificationSkipped = "skipped"
)
