package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booking"

// Recorder counts commit outcomes and reconciled orphans. It satisfies
// services.CommitRecorder.
type Recorder struct {
	registry   *prometheus.Registry
	commits    *prometheus.CounterVec
	reconciled prometheus.Counter
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Booking commits by outcome.",
		}, []string{"outcome"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphans_reconciled_total",
			Help:      "Appointments without service lines removed by the reconciler.",
		}),
	}

	r.registry.MustRegister(
		r.commits,
		r.reconciled,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) CommitFinished(outcome string) {
	r.commits.WithLabelValues(outcome).Inc()
}

func (r *Recorder) OrphansReconciled(count int) {
	if count > 0 {
		r.reconciled.Add(float64(count))
	}
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
