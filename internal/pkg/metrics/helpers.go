package metrics

import (
	"github.com/labstack/echo-contrib/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	gaugeMetricType        = "gauge"
	counterVecMetricType   = "counter_vec"
	histogramVecMetricType = "histogram_vec"
)

func newGauge(id, name, description string) *prometheus.Metric {
	return &prometheus.Metric{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        gaugeMetricType,
	}
}

func newCounter(id, name, description string, labels []string) *prometheus.Metric {
	return &prometheus.Metric{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        counterVecMetricType,
		Args:        labels,
	}
}

func newHistogram(id, name, description string, labels []string, buckets []float64) *prometheus.Metric {
	return &prometheus.Metric{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        histogramVecMetricType,
		Args:        labels,
		Buckets:     buckets,
	}
}

// Collectors stay nil until echo-contrib registers the list, so binaries without a metrics server skip them.

func gauge(m *prometheus.Metric) prom.Gauge {
	g, _ := m.MetricCollector.(prom.Gauge)
	return g
}

func counterVec(m *prometheus.Metric) *prom.CounterVec {
	c, _ := m.MetricCollector.(*prom.CounterVec)
	return c
}

func histogramVec(m *prometheus.Metric) *prom.HistogramVec {
	h, _ := m.MetricCollector.(*prom.HistogramVec)
	return h
}
