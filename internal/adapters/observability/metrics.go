package observability

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "reviewcheck"

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func seconds(name, help string, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: name, Help: help, Buckets: prometheus.DefBuckets,
	}, labels)
}

var (
	HTTPRequests = counter("http_requests_total", "Inbound API requests.", "route", "method", "status")
	HTTPLatency  = seconds("http_request_duration_seconds", "Inbound API request duration.", "route", "method")

	// status "0" is a transport failure with no HTTP reply
	UpstreamRequests = counter("upstream_requests_total", "Calls to Google APIs.", "service", "endpoint", "status")
	UpstreamLatency  = seconds("upstream_request_duration_seconds", "Google API call duration.", "service", "endpoint")

	CandidateAttempts = counter("candidate_attempts_total", "Candidate queries tried.", "variant", "outcome") // no_place|no_details|no_reviews|found
	ProbeResults      = counter("key_probe_results_total", "API key checks by result.", "check", "result")    // ok|failed|error
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{HTTPRequests, HTTPLatency, UpstreamRequests, UpstreamLatency, CandidateAttempts, ProbeResults}
}

func init() {
	// the CLI serves the default registry, the API its own
	prometheus.MustRegister(collectors()...)
}

// Serve exposes the default registry on addr, or METRICS_ADDR when addr is
// empty. Neither set means no listener.
func Serve(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics listener stopped")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors()...)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	UpstreamRequests.WithLabelValues(service, endpoint, strconv.Itoa(status)).Inc()
	UpstreamLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

func ObserveCandidate(variant, outcome string) {
	CandidateAttempts.WithLabelValues(variant, outcome).Inc()
}

func ObserveProbe(check string, ok bool, err error) {
	result := "failed"
	switch {
	case err != nil:
		result = "error"
	case ok:
		result = "ok"
	}
	ProbeResults.WithLabelValues(check, result).Inc()
}
