package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpath_telemetry_events_total",
			Help: "Telemetry events emitted, by event type and failure reason",
		},
		[]string{"type", "reason"},
	)

	eventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careerpath_telemetry_events_dropped_total",
			Help: "Telemetry events that never reached the sink",
		},
		[]string{"why"},
	)
)
