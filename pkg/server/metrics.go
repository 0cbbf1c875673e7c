package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	documents *prometheus.CounterVec
	items     prometheus.Counter
	duration  prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pconv",
			Name:      "documents_total",
			Help:      "Uploaded documents by outcome.",
		}, []string{"status"}),
		items: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pconv",
			Name:      "items_extracted_total",
			Help:      "Order lines extracted from uploaded documents.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pconv",
			Name:      "processing_duration_seconds",
			Help:      "Time spent extracting and projecting one document.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
