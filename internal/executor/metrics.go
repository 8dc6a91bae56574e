package executor

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "topk"

// Metrics holds the Prometheus collectors updated by a Pool.
// One Metrics value may be shared by several pools; series are labelled
// by pool name.
type Metrics struct {
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksCancelled *prometheus.CounterVec
	TaskDuration   *prometheus.HistogramVec
	Workers        *prometheus.GaugeVec
	ActiveWorkers  *prometheus.GaugeVec
	QueueDepth     *prometheus.GaugeVec
}

// NewMetrics creates the pool collectors and registers them with reg.
// Registering twice on the same registerer panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := []string{"pool"}

	return &Metrics{
		TasksSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "tasks_submitted_total",
				Help:      "Total number of tasks submitted to the pool",
			},
			labels,
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks that ran and succeeded",
			},
			labels,
		),

		TasksFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "tasks_failed_total",
				Help:      "Total number of tasks that ran and failed",
			},
			labels,
		),

		TasksCancelled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "tasks_cancelled_total",
				Help:      "Total number of tasks cancelled before running",
			},
			labels,
		),

		TaskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "task_duration_seconds",
				Help:      "Time spent running tasks",
				Buckets:   prometheus.DefBuckets,
			},
			labels,
		),

		Workers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "workers",
				Help:      "Number of live worker goroutines",
			},
			labels,
		),

		ActiveWorkers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "active_workers",
				Help:      "Number of workers currently running a task",
			},
			labels,
		),

		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "pool",
				Name:      "queue_depth",
				Help:      "Number of tasks waiting in the queue",
			},
			labels,
		),
	}
}

// Sample is one flattened metric value
type Sample struct {
	Name   string  `json:"name" yaml:"name"`
	Labels string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

// Snapshot gathers every counter and gauge from g as a sorted list of samples.
// Histograms are reported as their sample count and sum.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				pairs = append(pairs, lp.GetName()+"="+lp.GetValue())
			}
			labels := strings.Join(pairs, ",")

			switch {
			case m.GetCounter() != nil:
				samples = append(samples, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetCounter().GetValue()})
			case m.GetGauge() != nil:
				samples = append(samples, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetGauge().GetValue()})
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				samples = append(samples,
					Sample{Name: mf.GetName() + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
					Sample{Name: mf.GetName() + "_sum", Labels: labels, Value: h.GetSampleSum()},
				)
			}
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return samples[i].Labels < samples[j].Labels
	})

	return samples, nil
}
