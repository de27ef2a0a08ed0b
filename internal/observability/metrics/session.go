package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_sessions_issued_total",
			Help: "Total number of sessions issued",
		},
	)

	SessionsInvalidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_sessions_invalidated_total",
			Help: "Total number of sessions invalidated by a newer issuance",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_sessions_expired_total",
			Help: "Total number of sessions rejected as expired during validation",
		},
	)

	SessionValidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_session_validations_total",
			Help: "Total number of session validations",
		},
	)

	SessionValidationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_session_validations_failed_total",
			Help: "Total number of failed session validations",
		},
	)

	SessionsCleanupDeactivated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_sessions_cleanup_deactivated_total",
			Help: "Total number of expired sessions deactivated by the cleanup sweep",
		},
	)
)
