// Package metrics instruments the driver and analyzer with Prometheus
// counters and histograms, served over HTTP for scraping.
package metrics

import (
	"net/http"

	"github.com/go-gabac/gabac/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reason label values for AnalyzerCandidatesRejected, kept to a bounded set.
const (
	ReasonConfigInvalid = "config_invalid"
	ReasonOutOfRange    = "out_of_range"
)

var (
	BlocksEncoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabac_blocks_encoded_total",
		Help: "Total blocks processed by Encode.",
	})
	BlocksDecoded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabac_blocks_decoded_total",
		Help: "Total blocks processed by Decode.",
	})
	Bytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gabac_bytes_total",
		Help: "Total bytes processed, labeled by direction.",
	}, []string{"direction"})
	AnalyzerCandidatesTried = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gabac_analyzer_candidates_tried_total",
		Help: "Total configuration candidates the analyzer evaluated.",
	})
	AnalyzerCandidatesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gabac_analyzer_candidates_rejected_total",
		Help: "Total configuration candidates the analyzer rejected, by reason.",
	}, []string{"reason"})
	BlockEncodeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "gabac_block_encode_seconds",
		Help: "Wall-clock time spent encoding a single block.",
	})
)

// StartHTTP serves Prometheus metrics at /metrics on addr.
func StartHTTP(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logging.L().Info("metrics_listen", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.L().Error("metrics_http_error", "error", err)
		}
	}()
	return srv
}
