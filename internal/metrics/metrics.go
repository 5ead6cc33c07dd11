package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters and gauges for the frame-processing pipeline. Registered on the
// default registry and exposed on /metrics.
var (
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presensia_frames_processed_total",
		Help: "Frames read from camera sources and emitted to viewers.",
	})

	MatcherCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presensia_matcher_calls_total",
		Help: "Recognition requests issued to the face-matching service.",
	})

	MatcherFaults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presensia_matcher_faults_total",
		Help: "Matcher calls that failed and were treated as no-match.",
	})

	LivenessRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presensia_liveness_rejections_total",
		Help: "Detections rejected by the sharpness-based liveness check.",
	})

	AttendanceOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presensia_attendance_outcomes_total",
		Help: "Presence-recording attempts by outcome.",
	}, []string{"outcome"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "presensia_active_sessions",
		Help: "Sessions currently held in the registry.",
	})
)
