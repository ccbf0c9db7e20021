package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// viewsTotal — отданные производные представления (HTML и JSON API)
	viewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdtpgrid_views_total",
			Help: "Total number of derived table views served",
		},
		[]string{"dataset"},
	)

	// viewEmptyTotal — представления с пустой текущей страницей
	viewEmptyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdtpgrid_view_empty_total",
			Help: "Total number of views that rendered the empty state",
		},
		[]string{"dataset"},
	)

	viewDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tdtpgrid_view_duration_seconds",
			Help:    "Time spent filtering, sorting and paginating one view",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"dataset"},
	)

	// streamRecordsTotal — записи, добавленные в живые наборы
	streamRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdtpgrid_stream_records_total",
			Help: "Total number of records appended from message brokers",
		},
		[]string{"dataset"},
	)
)

func observeView(dataset string, empty bool, elapsed time.Duration) {
	viewsTotal.WithLabelValues(dataset).Inc()
	if empty {
		viewEmptyTotal.WithLabelValues(dataset).Inc()
	}
	viewDuration.WithLabelValues(dataset).Observe(elapsed.Seconds())
}
