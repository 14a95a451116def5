package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "canectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	simTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "sim",
			Name:      "ticks_total",
			Help:      "Simulation ticks that produced sensor values.",
		},
	)
	simUnknownMode = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "sim",
			Name:      "unknown_mode_total",
			Help:      "Ticks skipped because the current mode had no generator.",
		},
	)
	simModeChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "sim",
			Name:      "mode_changes_total",
			Help:      "Button presses that selected a mode.",
		},
		[]string{"mode"},
	)
	simMode = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "canectl",
			Subsystem: "sim",
			Name:      "mode",
			Help:      "Current simulation mode tag.",
		},
	)
	simBattery = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "canectl",
			Subsystem: "sim",
			Name:      "battery_level",
			Help:      "Simulated battery level after the last drain step.",
		},
	)
	transportFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "transport",
			Name:      "frames_total",
			Help:      "Frames accepted by the notification sink.",
		},
		[]string{"channel"},
	)
	transportErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "transport",
			Name:      "errors_total",
			Help:      "Frames rejected or dropped by the notification sink.",
		},
		[]string{"channel"},
	)
	monitorUnstable = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "canectl",
			Subsystem: "monitor",
			Name:      "unstable_run",
			Help:      "Consecutive unstable accelerometer samples seen by the monitor.",
		},
	)
	monitorAlerts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "canectl",
			Subsystem: "monitor",
			Name:      "alerts_total",
			Help:      "Instability alerts raised by the monitor.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			simTicks, simUnknownMode, simModeChanges, simMode, simBattery,
			transportFrames, transportErrors,
			monitorUnstable, monitorAlerts,
		)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordTick(modeTag uint8, battery float32) {
	RegisterMetrics()
	simTicks.Inc()
	simMode.Set(float64(modeTag))
	simBattery.Set(float64(battery))
}

func RecordUnknownMode() {
	RegisterMetrics()
	simUnknownMode.Inc()
}

func RecordModeChange(mode string) {
	RegisterMetrics()
	simModeChanges.WithLabelValues(mode).Inc()
}

func RecordFrame(channel string) {
	RegisterMetrics()
	transportFrames.WithLabelValues(channel).Inc()
}

func RecordTransportError(channel string) {
	RegisterMetrics()
	transportErrors.WithLabelValues(channel).Inc()
}

func RecordMonitorSample(run int, alert bool) {
	RegisterMetrics()
	monitorUnstable.Set(float64(run))
	if alert {
		monitorAlerts.Inc()
	}
}
