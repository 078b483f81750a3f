package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ActorsTotal counts actors registered with a supervisor, under the
	// lifecycle state they had at registration; later transitions are not
	// reflected and the gauge is never decremented.
	ActorsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hive_actors_total",
			Help: "Number of actors by lifecycle state",
		},
		[]string{"state"},
	)

	// SupervisorsTotal tracks the number of active supervisors.
	SupervisorsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "hive_supervisors_total",
			Help: "Number of active supervisors",
		},
	)

	// QueueDepth tracks the current in-flight queue length per supervisor.
	QueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hive_queue_depth",
			Help: "Number of messages currently queued for processing",
		},
		[]string{"supervisor"},
	)

	// InboundDepth tracks the current cross-locality inbound queue length.
	InboundDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hive_inbound_depth",
			Help: "Number of messages waiting to be drained from the inbound queue",
		},
		[]string{"supervisor"},
	)

	// MessagesDispatchedTotal counts messages dispatched to their subscribed
	// handlers, once per message however many handlers it reached.
	MessagesDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_messages_dispatched_total",
			Help: "Total number of messages dispatched to subscribed handlers",
		},
		[]string{"supervisor", "locality"},
	)

	// MessagesForwardedTotal counts cross-locality forwards.
	MessagesForwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_messages_forwarded_total",
			Help: "Total number of messages forwarded to another supervisor's inbound queue",
		},
		[]string{"supervisor"},
	)

	// RequestsTotal counts requests sent through the request correlator.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_requests_total",
			Help: "Total number of correlated requests sent",
		},
		[]string{"supervisor"},
	)

	// RequestTimeoutsTotal counts requests whose timeout timer fired before a reply arrived.
	RequestTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_request_timeouts_total",
			Help: "Total number of requests that timed out before a reply was delivered",
		},
		[]string{"supervisor"},
	)

	// RequestDuration observes round-trip latency for requests that received a reply.
	RequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hive_request_duration_seconds",
			Help:    "Round-trip duration of correlated requests that received a reply",
			Buckets: prometheus.DefBuckets,
		},
	)

	// TimersActive tracks the number of timers currently armed.
	TimersActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hive_timers_active",
			Help: "Number of timers currently armed",
		},
		[]string{"supervisor"},
	)

	// TimersFiredTotal counts timer callbacks, split by whether they were cancelled.
	TimersFiredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_timers_fired_total",
			Help: "Total number of timer callbacks invoked",
		},
		[]string{"supervisor", "cancelled"},
	)

	// SpawnerRestartsTotal counts actor restarts performed by a spawner.
	SpawnerRestartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hive_spawner_restarts_total",
			Help: "Total number of actor restarts performed by a spawner",
		},
		[]string{"spawner"},
	)
)

func init() {
	prometheus.MustRegister(ActorsTotal)
	prometheus.MustRegister(SupervisorsTotal)
	prometheus.MustRegister(QueueDepth)
	prometheus.MustRegister(InboundDepth)
	prometheus.MustRegister(MessagesDispatchedTotal)
	prometheus.MustRegister(MessagesForwardedTotal)
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestTimeoutsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(TimersActive)
	prometheus.MustRegister(TimersFiredTotal)
	prometheus.MustRegister(SpawnerRestartsTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
