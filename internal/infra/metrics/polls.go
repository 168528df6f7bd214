package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	pollTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_poll_ticks_total",
			Help: "Status poll attempts per poller.",
		},
		[]string{"poller"},
	)

	pollErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_poll_errors_total",
			Help: "Failed status polls per poller (tick skipped, previous status retained).",
		},
		[]string{"poller"},
	)
)

func init() { register(pollTicks, pollErrors) }

func IncPollTick(poller string)  { pollTicks.WithLabelValues(poller).Inc() }
func IncPollError(poller string) { pollErrors.WithLabelValues(poller).Inc() }
