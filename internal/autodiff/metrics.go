package autodiff

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	passesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ndgraph_passes_total",
		Help: "Total number of graph passes by direction",
	}, []string{"pass"})

	passFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ndgraph_pass_failures_total",
		Help: "Total number of graph passes that returned an error",
	}, []string{"pass"})

	passDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ndgraph_pass_duration_seconds",
		Help:    "Wall time of forward and backward passes",
		Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
	}, []string{"pass"})

	kernelEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ndgraph_kernel_evaluations_total",
		Help: "Kernel forward and backward calls by kernel name",
	}, []string{"kernel", "pass"})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ndgraph_graph_nodes",
		Help: "Node count of the most recently evaluated graph",
	})
)

const (
	passForward  = "forward"
	passBackward = "backward"
)
