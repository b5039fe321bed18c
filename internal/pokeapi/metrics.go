package pokeapi

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of Pokedex API requests by route and status code",
		},
		[]string{"route", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pokedex",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Histogram of Pokedex API request durations",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	requestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "pokedex",
			Subsystem: "api",
			Name:      "requests_in_flight",
			Help:      "Number of Pokedex API requests currently in flight",
		},
		[]string{"route"},
	)
)

// observeRequest records a finished request. A zero code means no response
// was received.
func observeRequest(route string, code int, elapsed time.Duration) {
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	requestsTotal.WithLabelValues(route, label).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
