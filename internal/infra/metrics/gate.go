// File: internal/infra/metrics/gate.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"telegram-miniapp-gate/internal/domain/model"
)

var gateStates = []model.GateState{
	model.GateLoading,
	model.GateBanned,
	model.GateCountryBlocked,
	model.GateTelegramRequired,
	model.GateReady,
}

var (
	gateState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gate_state",
			Help: "Current gate decision state (1 for the active state, 0 otherwise).",
		},
		[]string{"state"},
	)

	gateTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_transitions_total",
			Help: "Gate decision transitions by destination state.",
		},
		[]string{"to"},
	)
)

func init() { register(gateState, gateTransitions) }

// SetGateState marks the given state as active and counts the transition.
func SetGateState(to model.GateState) {
	for _, s := range gateStates {
		v := 0.0
		if s == to {
			v = 1.0
		}
		gateState.WithLabelValues(string(s)).Set(v)
	}
	gateTransitions.WithLabelValues(string(to)).Inc()
}
