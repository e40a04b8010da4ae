package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	keystrokesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "friendsearch",
			Name:      "keystrokes_total",
			Help:      "Raw input changes seen by the coordinator.",
		},
	)

	lookupsIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "friendsearch",
			Name:      "lookups_issued_total",
			Help:      "Committed terms sent to the lookup service.",
		},
	)

	lookupResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "friendsearch",
			Name:      "lookup_results_total",
			Help:      "Lookup completions by outcome; stale ones were superseded and discarded.",
		},
		[]string{"outcome"},
	)

	addFriendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "friendsearch",
			Name:      "add_friend_total",
			Help:      "Friend requests by outcome.",
		},
		[]string{"outcome"},
	)
)
