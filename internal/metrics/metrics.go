package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/open-sspm/ovh-key-audit/internal/audit"
)

const (
	namespace = "ovhkeyaudit"
)

// Recorder collects the metrics of a single audit run on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	APIReads             *prometheus.CounterVec
	CredentialsMatched   prometheus.Counter
	OrphanedApplications prometheus.Counter
	RunDuration          prometheus.Gauge
	LastRunTimestamp     prometheus.Gauge
}

func NewRecorder(mode string) *Recorder {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"mode": mode}
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		APIReads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "api_reads_total",
			Help:        "Count of OVHcloud API reads by resource and outcome.",
			ConstLabels: labels,
		}, []string{"resource", "outcome"}),
		CredentialsMatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "credentials_matched_total",
			Help:        "Number of credentials kept by the scan.",
			ConstLabels: labels,
		}),
		OrphanedApplications: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "orphaned_applications_total",
			Help:        "Number of applications without a valid credential.",
			ConstLabels: labels,
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "run_duration_seconds",
			Help:        "Wall time of the audit run.",
			ConstLabels: labels,
		}),
		LastRunTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix timestamp of the end of the audit run.",
			ConstLabels: labels,
		}),
	}
}

// Report implements audit.Reporter.
func (r *Recorder) Report(e audit.Event) {
	switch e.Stage {
	case audit.StageCredentials, audit.StageCredential, audit.StageApplications, audit.StageApplication:
		r.APIReads.WithLabelValues(e.Stage, e.Outcome).Inc()
	case audit.StageMatch:
		r.CredentialsMatched.Inc()
	case audit.StageOrphan:
		r.OrphanedApplications.Inc()
	}
}

// Finish records the run duration measured from start.
func (r *Recorder) Finish(start, end time.Time) {
	r.RunDuration.Set(end.Sub(start).Seconds())
	r.LastRunTimestamp.Set(float64(end.Unix()))
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("metrics file path is required")
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
