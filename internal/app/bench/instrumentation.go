package bench

import (
	"time"

	"github.com/prometheus/client_golang/prometheus" // Prometheus metrics.

	"github.com/sjolander/cloudwatch-search/pkg/cwsearch" // Search CloudWatch Logs like Elasticsearch.
)

// Instrumentation holds Prometheus metrics specific to
// the bench App.
type Instrumentation struct {
	// Count of searches run, partitioned by outcome. The outcome is
	// "success" or the error type of the failure envelope.
	Searches *prometheus.CounterVec

	// Wall-clock duration of each search.
	Duration prometheus.Histogram

	// Total number of hits returned across all searches.
	Hits prometheus.Counter
}

// NewInstrumentation returns a new Instrumentation.
func NewInstrumentation(namespace string) *Instrumentation {
	return &Instrumentation{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Count of searches run, partitioned by outcome.",
		}, []string{"outcome"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of each search.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total number of hits returned across all searches.",
		}),
	}
}

// Observe records the outcome of one search.
func (m *Instrumentation) Observe(resp *cwsearch.Response, d time.Duration) {
	outcome := "success"
	if resp.Failed() {
		outcome = resp.Error.Type
	}
	m.Searches.WithLabelValues(outcome).Inc()
	m.Duration.Observe(d.Seconds())
	m.Hits.Add(float64(len(resp.Hits.Hits)))
}

// Describe implements the prometheus.Collector interface.
func (m *Instrumentation) Describe(c chan<- *prometheus.Desc) {
	m.Searches.Describe(c)
	m.Duration.Describe(c)
	m.Hits.Describe(c)
}

// Collect implements the prometheus.Collector interface.
func (m *Instrumentation) Collect(c chan<- prometheus.Metric) {
	m.Searches.Collect(c)
	m.Duration.Collect(c)
	m.Hits.Collect(c)
}
