// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of one server. Each server owns a
// registry so tests can run several side by side.
type Metrics struct {
	Registry *prometheus.Registry

	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	ChatReplies *prometheus.CounterVec
	Upstream    *prometheus.HistogramVec
	RateLimited prometheus.Counter
}

// NewMetrics registers the server collectors on a fresh registry, together
// with the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apexchat_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		Duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apexchat_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		ChatReplies: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apexchat_chat_replies_total",
				Help: "Chat calls by language and outcome",
			},
			[]string{"language", "outcome"},
		),
		Upstream: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apexchat_upstream_duration_seconds",
				Help:    "Time spent answering a chat call, including the upstream request",
				Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"outcome"},
		),
		RateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Name: "apexchat_rate_limited_total",
				Help: "Requests rejected by the per-IP rate limiter",
			},
		),
	}
}
