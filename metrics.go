package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	metricHTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wasteless_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Chat metrics
	metricConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wasteless_ws_connections",
		Help: "Open websocket connections",
	})

	metricRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wasteless_chat_rooms",
		Help: "Live chat rooms",
	})

	metricMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wasteless_chat_messages_total",
		Help: "Chat messages accepted",
	})

	metricEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wasteless_chat_rooms_evicted_total",
		Help: "Rooms evicted by the reaper",
	})
)
