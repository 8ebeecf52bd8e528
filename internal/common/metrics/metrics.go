package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Application submissions by outcome",
		},
		[]string{"outcome"},
	)

	SubmissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_submission_rejections_total",
			Help: "Rejected submissions by error code",
		},
		[]string{"code"},
	)

	SubmissionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_submission_duration_seconds",
			Help:    "Time spent in the submission pipeline",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_notifications_total",
			Help: "Notification attempts by channel and status",
		},
		[]string{"channel", "status"},
	)

	NotificationsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_notifications_dropped_total",
			Help: "Notifications dropped because the queue was full or closed",
		},
	)

	NotificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_notification_queue_depth",
			Help: "Notifications waiting in the local queue",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"route"},
	)
)
