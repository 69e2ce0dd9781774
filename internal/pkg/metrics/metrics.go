// Package metrics exposes Prometheus collectors for product URL resolution
// and the add-product flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pricewatch/internal/producturl"
)

const namespace = "pricewatch"

type Recorder struct {
	registry *prometheus.Registry

	resolveOutcomes *prometheus.CounterVec
	productAdds     *prometheus.CounterVec
	crawlResults    *prometheus.CounterVec
}

// NewRecorder builds a Recorder on its own registry, with Go and process
// collectors attached.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		resolveOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_outcomes_total",
			Help:      "Product URL resolutions by outcome kind and shop.",
		}, []string{"kind", "shop"}),
		productAdds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_adds_total",
			Help:      "Add-product requests by result status.",
		}, []string{"status"}),
		crawlResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "crawl_results_total",
			Help:      "Crawl result messages by handling result.",
		}, []string{"result"}),
	}
	reg.MustRegister(r.resolveOutcomes, r.productAdds, r.crawlResults)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) ObserveOutcome(o producturl.Outcome) {
	if r == nil {
		return
	}
	r.resolveOutcomes.WithLabelValues(o.Kind.String(), o.Shop).Inc()
}

func (r *Recorder) ObserveProductAdd(status string) {
	if r == nil {
		return
	}
	r.productAdds.WithLabelValues(status).Inc()
}

func (r *Recorder) ObserveCrawlResult(result string) {
	if r == nil {
		return
	}
	r.crawlResults.WithLabelValues(result).Inc()
}
