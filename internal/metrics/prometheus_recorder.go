package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promcollect "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "webhook"

// PrometheusRecorder implements Recorder using Prometheus collectors.
type PrometheusRecorder struct {
	reg           *prom.Registry
	deliveries    *prom.CounterVec
	appends       prom.Counter
	flushFailures prom.Counter
	logSize       prom.Gauge
	deadLetters   *prom.CounterVec
}

var _ Recorder = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder registers the ingestion collectors on reg, creating a
// private registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		deliveries: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Webhook deliveries by event kind and outcome",
		}, []string{"event", "outcome"}),
		appends: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "log_appends_total",
			Help:      "Records appended to the event log",
		}),
		flushFailures: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "log_flush_failures_total",
			Help:      "Failed writes of the event log file",
		}),
		logSize: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "log_size",
			Help:      "Records currently held by the event log",
		}),
		deadLetters: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "dead_letters_total",
			Help:      "Deliveries routed to the dead-letter store by reason",
		}, []string{"reason"}),
	}
	reg.MustRegister(pr.deliveries, pr.appends, pr.flushFailures, pr.logSize, pr.deadLetters)
	reg.MustRegister(promcollect.NewGoCollector(), promcollect.NewProcessCollector(promcollect.ProcessCollectorOpts{}))
	return pr
}

func (p *PrometheusRecorder) IncDelivery(event string, outcome Outcome) {
	if event == "" {
		event = "none"
	}
	p.deliveries.WithLabelValues(event, string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncAppend()             { p.appends.Inc() }
func (p *PrometheusRecorder) IncFlushFailure()       { p.flushFailures.Inc() }
func (p *PrometheusRecorder) SetLogSize(n int)       { p.logSize.Set(float64(n)) }
func (p *PrometheusRecorder) IncDeadLetter(r string) { p.deadLetters.WithLabelValues(r).Inc() }

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
