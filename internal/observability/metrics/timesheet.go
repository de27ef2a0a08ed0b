package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TimesheetSaves = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_saves_total",
			Help: "Total number of timesheet save operations",
		},
	)

	TimesheetHeadersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_headers_created_total",
			Help: "Total number of timesheet headers created on first save",
		},
	)

	TimesheetRowsReplaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timesheet_rows_replaced_total",
			Help: "Total number of rows written during save operations",
		},
	)
)
