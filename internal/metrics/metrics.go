// Package metrics exposes the dashboard's Prometheus collectors on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "automaton_shop"

// Metrics stores application metrics in its own registry.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requests     *prometheus.CounterVec
	inFlight     prometheus.Gauge
	scans        *prometheus.CounterVec
	scansRunning prometheus.Gauge
	jobs         *prometheus.CounterVec
	jobsRunning  prometheus.Gauge
	llmCalls     *prometheus.CounterVec
	remoteCalls  *prometheus.CounterVec
}

func New() *Metrics {
	counter := func(name, help, label string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, []string{label})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	m := &Metrics{
		registry:     prometheus.NewRegistry(),
		requests:     counter("requests_total", "HTTP requests by outcome.", "outcome"),
		inFlight:     gauge("requests_in_progress", "HTTP requests being served."),
		scans:        counter("scans_total", "Finished store scans by result.", "result"),
		scansRunning: gauge("scans_running", "Store scans in progress."),
		jobs:         counter("jobs_total", "Finished background jobs by result.", "result"),
		jobsRunning:  gauge("jobs_running", "Background jobs in progress."),
		llmCalls:     counter("llm_calls_total", "Model completions by result.", "result"),
		remoteCalls:  counter("remote_calls_total", "Remote function calls by result.", "result"),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.inFlight,
		m.scans, m.scansRunning,
		m.jobs, m.jobsRunning,
		m.llmCalls, m.remoteCalls,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

var global = New()

// Default returns the process-wide metrics. Recording methods are no-ops on
// a nil *Metrics.
func Default() *Metrics { return global }

func result(failed bool) string {
	if failed {
		return "failed"
	}
	return "ok"
}

func (m *Metrics) RequestStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// RequestFinished classifies the response; 2xx and 3xx count as success.
func (m *Metrics) RequestFinished(status int) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	outcome := "success"
	if status < 200 || status >= 400 {
		outcome = "failed"
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ScanStarted() {
	if m == nil {
		return
	}
	m.scansRunning.Inc()
}

func (m *Metrics) ScanFinished(failed bool) {
	if m == nil {
		return
	}
	m.scansRunning.Dec()
	m.scans.WithLabelValues(result(failed)).Inc()
}

func (m *Metrics) JobStarted() {
	if m == nil {
		return
	}
	m.jobsRunning.Inc()
}

func (m *Metrics) JobFinished(failed bool) {
	if m == nil {
		return
	}
	m.jobsRunning.Dec()
	m.jobs.WithLabelValues(result(failed)).Inc()
}

func (m *Metrics) LLMCall(err error) {
	if m == nil {
		return
	}
	m.llmCalls.WithLabelValues(result(err != nil)).Inc()
}

func (m *Metrics) RemoteCall(err error) {
	if m == nil {
		return
	}
	m.remoteCalls.WithLabelValues(result(err != nil)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
