// Package metrics provides Prometheus instrumentation for the PairLink
// chat backend: connection and presence gauges plus message throughput
// counters broken down by outcome.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsTotal tracks the current number of open realtime
	// connections across all users and devices.
	ConnectionsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairlink_connections_total",
		Help: "Current number of active WebSocket connections",
	})

	// OnlineUsers tracks distinct users with at least one connection.
	OnlineUsers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pairlink_online_users",
		Help: "Current number of distinct online users",
	})

	// MessagesTotal counts processed messages by outcome: "sent",
	// "blocked" (paywall), "deleted", or "failed".
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pairlink_messages_total",
		Help: "Total number of messages processed",
	}, []string{"outcome"})

	// RoomJoins counts match-room join operations.
	RoomJoins = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pairlink_room_joins_total",
		Help: "Total number of match room joins",
	})
)

func init() {
	prometheus.MustRegister(
		ConnectionsTotal,
		OnlineUsers,
		MessagesTotal,
		RoomJoins,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
