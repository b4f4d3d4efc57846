// Package metrics holds the prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the bot counters.
type Metrics struct {
	Turns        *prometheus.CounterVec
	Intents      *prometheus.CounterVec
	Records      *prometheus.CounterVec
	SendFailures prometheus.Counter
}

// New registers the counters on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idiomasbot_turns_total",
			Help: "Inbound turns processed, by handling path.",
		}, []string{"path"}),
		Intents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idiomasbot_intents_total",
			Help: "Classified intents, by tag.",
		}, []string{"intent"}),
		Records: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idiomasbot_records_total",
			Help: "Finalized records appended, by kind.",
		}, []string{"kind"}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "idiomasbot_send_failures_total",
			Help: "Outbound messages the transport rejected.",
		}),
	}
}
