package engine

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	transitionInitialize               = "initialize"
	transitionMint                     = "mint"
	transitionBurn                     = "burn"
	transitionPause                    = "pause"
	transitionUnpause                  = "unpause"
	transitionUpdateRequiredValidators = "update_required_validators"
)

var (
	transitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "transitions_total",
			Help:      "Total number of bridge transitions by outcome",
		}, []string{"transition", "result"})

	mintedAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "minted_amount_total",
			Help:      "Total amount of wrapped tokens minted",
		})

	burnedAmountTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bridge",
			Name:      "burned_amount_total",
			Help:      "Total amount of wrapped tokens burned",
		})
)

func observeTransition(transition string, err error) {
	transitionsTotal.WithLabelValues(transition, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	kind, ok := Kind(err)
	if !ok {
		return "error"
	}
	return strings.ReplaceAll(string(kind), " ", "_")
}
