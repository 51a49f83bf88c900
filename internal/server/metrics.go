package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tileRequestsTotal counts tile responses by source and result.
	tileRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "latticenoise_tile_requests_total",
		Help: "Tile requests by source (render, cache, mbtiles) and result",
	}, []string{"source", "result"})

	// tileRenderDuration tracks on-demand render latency by tile size.
	tileRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "latticenoise_tile_render_duration_seconds",
		Help:    "On-demand tile render duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"size"})

	activeRendersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "latticenoise_active_renders",
		Help: "Tiles currently being rendered",
	})
)
