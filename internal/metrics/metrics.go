// Package metrics exposes search statistics as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Zalathar/gecode/pkg/search"
)

// Collector translates a statistics source into Prometheus metrics on
// scrape. The source is typically Engine.Statistics and is read
// best-effort while a search runs.
type Collector struct {
	source func() search.Statistics

	node      *prometheus.Desc
	fail      *prometheus.Desc
	propagate *prometheus.Desc
	depth     *prometheus.Desc
	memory    *prometheus.Desc
	restart   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector builds a collector over the given statistics source.
func NewCollector(source func() search.Statistics) *Collector {
	return &Collector{
		source: source,
		node: prometheus.NewDesc("gecode_search_nodes_total",
			"Number of search nodes expanded.", nil, nil),
		fail: prometheus.NewDesc("gecode_search_failures_total",
			"Number of failed search nodes.", nil, nil),
		propagate: prometheus.NewDesc("gecode_search_propagations_total",
			"Number of propagation steps performed.", nil, nil),
		depth: prometheus.NewDesc("gecode_search_peak_depth",
			"Peak depth of any worker's path.", nil, nil),
		memory: prometheus.NewDesc("gecode_search_path_frames",
			"Path frames currently resident across workers.", nil, nil),
		restart: prometheus.NewDesc("gecode_search_restarts_total",
			"Number of restarts performed by meta search.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.node
	ch <- c.fail
	ch <- c.propagate
	ch <- c.depth
	ch <- c.memory
	ch <- c.restart
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source()
	ch <- prometheus.MustNewConstMetric(c.node, prometheus.CounterValue, float64(s.Node))
	ch <- prometheus.MustNewConstMetric(c.fail, prometheus.CounterValue, float64(s.Fail))
	ch <- prometheus.MustNewConstMetric(c.propagate, prometheus.CounterValue, float64(s.Propagate))
	ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(s.Depth))
	ch <- prometheus.MustNewConstMetric(c.memory, prometheus.GaugeValue, float64(s.Memory))
	ch <- prometheus.MustNewConstMetric(c.restart, prometheus.CounterValue, float64(s.Restart))
}
