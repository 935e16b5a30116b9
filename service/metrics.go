package service

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the extraction counters and histograms.
type Metrics struct {
	documents   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	fieldsFound *prometheus.HistogramVec
}

// NewMetrics registers the extraction metrics with reg. A nil reg leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idextract_documents_total",
			Help: "Documents processed by type, field source and completeness",
		}, []string{"doc_type", "source", "valid"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idextract_extraction_duration_seconds",
			Help:    "Time taken to extract one document",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"doc_type", "source"}),
		fieldsFound: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "idextract_fields_found",
			Help:    "Number of populated fields per document",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		}, []string{"doc_type"}),
	}
}

// Observe records one finished extraction.
func (m *Metrics) Observe(docType, source string, valid bool, fields int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(docType, source, strconv.FormatBool(valid)).Inc()
	m.duration.WithLabelValues(docType, source).Observe(elapsed.Seconds())
	m.fieldsFound.WithLabelValues(docType).Observe(float64(fields))
}
