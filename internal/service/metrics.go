package service

import "github.com/prometheus/client_golang/prometheus"

var statusUpdates = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "adoption_application_status_updates_total",
		Help: "Successful adoption application status updates",
	},
	[]string{"status"},
)

func init() { prometheus.MustRegister(statusUpdates) }
