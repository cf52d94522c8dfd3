// Package metrics exposes Prometheus counters for the import pipeline
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportEventsImported counts events newly created by import runs
	ImportEventsImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_import_events_imported_total",
		Help: "Number of events newly created by import runs",
	})

	// ImportEventsUpdated counts events refreshed or linked by import runs
	ImportEventsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_import_events_updated_total",
		Help: "Number of existing events refreshed or linked by import runs",
	})

	// ImportErrors counts per-event and per-venue import failures
	ImportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_import_errors_total",
		Help: "Number of errors encountered during import runs",
	})

	// ImportVenuesProcessed counts venues visited by import runs
	ImportVenuesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lineup_import_venues_processed_total",
		Help: "Number of venues processed by import runs",
	})
)
