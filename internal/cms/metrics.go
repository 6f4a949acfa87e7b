package cms

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_requests_total",
			Help: "Total number of CMS requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cms_request_duration_seconds",
			Help:    "Duration of CMS requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	productsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cms_products_skipped_total",
			Help: "CMS product entries dropped from collection reads because they failed validation",
		},
		[]string{"operation"},
	)
)
