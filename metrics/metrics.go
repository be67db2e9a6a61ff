package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AutosaveWrites counts debounced and flushed score upserts by outcome.
	AutosaveWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabulation_autosave_writes_total",
		Help: "Score cell upserts issued by the auto-save scheduler.",
	}, []string{"status"})

	// LockTransitions counts submit and unlock transitions by action and outcome.
	LockTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabulation_lock_transitions_total",
		Help: "Submit/unlock transitions of judge scoresheets.",
	}, []string{"action", "status"})

	// ActivityAppends counts audit-log appends by outcome.
	ActivityAppends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabulation_activity_appends_total",
		Help: "Activity log records appended.",
	}, []string{"status"})
)
