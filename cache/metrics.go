/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hitCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prreport_cache_hits_total",
			Help: "Calls served from the cache",
		},
		[]string{"cache"},
	)

	missCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prreport_cache_misses_total",
			Help: "Calls that ran the wrapped function",
		},
		[]string{"cache"},
	)

	readFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prreport_cache_read_failures_total",
			Help: "Cache reads that failed or returned an undecodable entry",
		},
		[]string{"cache"},
	)

	writeFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prreport_cache_write_failures_total",
			Help: "Results that could not be stored",
		},
		[]string{"cache"},
	)
)

type cacheMetrics struct {
	hits, misses, readFailures, writeFailures prometheus.Counter
}

func metricsFor(name string) cacheMetrics {
	labels := prometheus.Labels{"cache": name}
	return cacheMetrics{
		hits:          hitCounter.With(labels),
		misses:        missCounter.With(labels),
		readFailures:  readFailureCounter.With(labels),
		writeFailures: writeFailureCounter.With(labels),
	}
}
