package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cartItemsAdded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cart_items_added_total",
		Help: "Total number of cart append attempts by outcome",
	},
	[]string{"outcome"},
)
