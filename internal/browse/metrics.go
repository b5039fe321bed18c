package browse

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	discardStale  = "stale"
	discardClosed = "closed"

	resultOK     = "ok"
	resultFailed = "failed"
)

var (
	fetchesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "browse",
		Name:      "fetches_issued_total",
		Help:      "Total number of list fetches issued",
	})

	fetchesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "browse",
			Name:      "fetches_applied_total",
			Help:      "Total number of list responses applied, by result",
		},
		[]string{"result"},
	)

	fetchesDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "browse",
			Name:      "fetches_discarded_total",
			Help:      "Total number of list responses discarded, by reason",
		},
		[]string{"reason"},
	)

	searchCommits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "pokedex",
		Subsystem: "browse",
		Name:      "search_commits_total",
		Help:      "Total number of debounced search commits",
	})

	mutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pokedex",
			Subsystem: "browse",
			Name:      "mutations_total",
			Help:      "Total number of capture and release calls, by action and result",
		},
		[]string{"action", "result"},
	)
)
