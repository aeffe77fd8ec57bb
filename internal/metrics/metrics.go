package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal tracks intake submissions by outcome
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_submissions_total",
			Help: "Total number of intake submissions",
		},
		[]string{"outcome"},
	)

	// SubmissionDuration tracks end-to-end intake handler latency
	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_submission_duration_seconds",
			Help:    "Intake handler latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// UploadBytes tracks accepted attachment sizes
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "intake_upload_bytes",
			Help:    "Size of accepted attachments in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		},
	)

	// DuplicatesTotal tracks rejected duplicate submissions
	DuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "intake_duplicates_total",
			Help: "Total number of duplicate submissions rejected",
		},
	)

	// StatusChangesTotal tracks admin review status transitions
	StatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_status_changes_total",
			Help: "Total number of review status changes",
		},
		[]string{"to"},
	)

	// MailSendsTotal tracks notification mail attempts
	MailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intake_mail_sends_total",
			Help: "Total number of notification mails attempted",
		},
		[]string{"result"},
	)
)
