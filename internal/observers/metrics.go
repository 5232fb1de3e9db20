package observers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vovakirdan/robotsim/internal/engine"
	"github.com/vovakirdan/robotsim/internal/snapshot"
)

// MetricsObserver counts engine notifications into Prometheus collectors
// held in its own registry.
type MetricsObserver struct {
	registry *prometheus.Registry

	steps      prometheus.Counter
	collisions *prometheus.CounterVec
	merges     *prometheus.CounterVec
	simTime    prometheus.Gauge
	robots     prometheus.Gauge
}

var _ engine.Observer = (*MetricsObserver)(nil)

// NewMetricsObserver creates a metrics observer. An empty namespace defaults
// to "robotsim".
func NewMetricsObserver(namespace string) *MetricsObserver {
	if namespace == "" {
		namespace = "robotsim"
	}

	m := &MetricsObserver{registry: prometheus.NewRegistry()}

	m.steps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "steps_total",
		Help:      "Total number of simulation steps",
	})

	m.collisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "collisions_total",
			Help:      "Total number of robot collisions by element type",
		},
		[]string{"element_type"},
	)

	m.merges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "merge_arrivals_total",
			Help:      "Total number of merge point arrivals by element type",
		},
		[]string{"element_type"},
	)

	m.simTime = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "sim_time_seconds",
		Help:      "Simulation time of the latest step",
	})

	m.robots = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "robots",
		Help:      "Number of robots in the latest step",
	})

	m.registry.MustRegister(m.steps, m.collisions, m.merges, m.simTime, m.robots)
	return m
}

// Registry returns the registry holding the observer's collectors.
func (m *MetricsObserver) Registry() *prometheus.Registry {
	return m.registry
}

func (m *MetricsObserver) OnStep(state *snapshot.SystemState) {
	m.steps.Inc()
	m.simTime.Set(state.Time())
	m.robots.Set(float64(state.RobotCount()))
}

func (m *MetricsObserver) OnCollision(ev engine.CollisionEvent) {
	m.collisions.WithLabelValues(ev.Element.TypeID).Inc()
}

func (m *MetricsObserver) OnMergePoint(ev engine.MergeEvent) {
	m.merges.WithLabelValues(ev.Element.TypeID).Inc()
}

// WriteSummary writes one "name{labels} value" line per gathered sample.
func (m *MetricsObserver) WriteSummary(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			if _, err := fmt.Fprintf(w, "%s%s %g\n", mf.GetName(), labelString(metric), sampleValue(mf, metric)); err != nil {
				return err
			}
		}
	}
	return nil
}

func labelString(metric *dto.Metric) string {
	pairs := metric.GetLabel()
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, lp := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ",") + "}"
}

func sampleValue(mf *dto.MetricFamily, metric *dto.Metric) float64 {
	switch mf.GetType() {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	default:
		return metric.GetUntyped().GetValue()
	}
}
