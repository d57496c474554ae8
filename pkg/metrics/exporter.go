// Package metrics tracks run counters. Album libraries take hours to
// re-encode, so the exporter can serve a /metrics endpoint during the
// run; at the end it can also drop a textfile in node_exporter textfile
// collector format.
package metrics

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Exporter owns the run's Prometheus registry. A nil *Exporter is a
// valid no-op, so callers don't guard every counter update.
type Exporter struct {
	registry *prometheus.Registry

	activeJobs  prometheus.Gauge
	encodesOK   prometheus.Counter
	encodesFail prometheus.Counter
	copies      prometheus.Counter
	inputBytes  prometheus.Counter
	outputBytes prometheus.Counter
}

func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "albumconv_active_jobs",
			Help: "Number of transcode jobs currently running",
		}),
		encodesOK: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "albumconv_encodes_completed_total",
			Help: "Transcode jobs that completed successfully",
		}),
		encodesFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "albumconv_encodes_failed_total",
			Help: "Transcode jobs whose encoder exited non-zero",
		}),
		copies: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "albumconv_copies_total",
			Help: "Copy jobs executed",
		}),
		inputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "albumconv_input_bytes_total",
			Help: "Bytes of source audio read by transcode jobs",
		}),
		outputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "albumconv_output_bytes_total",
			Help: "Bytes of encoded audio written by transcode jobs",
		}),
	}
	e.registry.MustRegister(e.activeJobs, e.encodesOK, e.encodesFail, e.copies, e.inputBytes, e.outputBytes)
	return e
}

func (e *Exporter) JobStarted() {
	if e == nil {
		return
	}
	e.activeJobs.Inc()
}

func (e *Exporter) JobFinished(ok bool, inBytes, outBytes int64) {
	if e == nil {
		return
	}
	e.activeJobs.Dec()
	if ok {
		e.encodesOK.Inc()
	} else {
		e.encodesFail.Inc()
	}
	e.inputBytes.Add(float64(inBytes))
	e.outputBytes.Add(float64(outBytes))
}

func (e *Exporter) CopyDone() {
	if e == nil {
		return
	}
	e.copies.Inc()
}

// Serve exposes /metrics on addr in the background. The server lives
// for the whole run; it dies with the process.
func (e *Exporter) Serve(addr string) *http.Server {
	if e == nil {
		return nil
	}
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go srv.ListenAndServe()
	return srv
}

// WriteTextfile writes the final counters to path in text exposition
// format, the shape node_exporter's textfile collector ingests.
func (e *Exporter) WriteTextfile(path string) error {
	if e == nil {
		return nil
	}
	families, err := e.registry.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating metrics file: %w", err)
	}
	defer f.Close()

	encoder := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("encoding metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
