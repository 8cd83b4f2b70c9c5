// Package metrics records Prometheus metrics for evaluation runs.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spboyer/ddbeval/internal/dimensions"
	"github.com/spboyer/ddbeval/internal/models"
)

const namespace = "ddbeval"

// ScoreBuckets spans the 1-10 scoring scale.
var ScoreBuckets = []float64{1, 2, 3, 4, 5, 5.5, 6, 7, 8, 8.5, 9, 10}

// Recorder collects run metrics into its own registry, so several recorders
// can coexist in one process.
type Recorder struct {
	registry *prometheus.Registry

	// Labels: status (success, error, skipped)
	runs *prometheus.CounterVec
	// Labels: family, level
	familyScore *prometheus.HistogramVec
	// Labels: family, dimension
	dimensionScore *prometheus.HistogramVec
	// Labels: family
	evaluationFailures *prometheus.CounterVec
	// Labels: family
	unanswered *prometheus.CounterVec
	// Labels: phase (conversation, session_evaluation, model_evaluation, total)
	phaseDuration *prometheus.HistogramVec

	mu       sync.Mutex
	observed int
}

// NewRecorder registers every collector on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "runs",
				Name:      "total",
				Help:      "Total number of scenario runs by report status",
			},
			[]string{"status"},
		),
		familyScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "overall_score",
				Help:      "Overall score of each dimension family evaluation",
				Buckets:   ScoreBuckets,
			},
			[]string{"family", "level"},
		),
		dimensionScore: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "dimension_score",
				Help:      "Score of each individual dimension",
				Buckets:   ScoreBuckets,
			},
			[]string{"family", "dimension"},
		),
		evaluationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "failures_total",
				Help:      "Total number of family evaluations the judge could not complete",
			},
			[]string{"family"},
		),
		unanswered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "evaluation",
				Name:      "unanswered_dimensions_total",
				Help:      "Total number of dimension scores the judge left empty",
			},
			[]string{"family"},
		),
		phaseDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "runs",
				Name:      "phase_duration_seconds",
				Help:      "Duration of each run phase in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"phase"},
		),
	}
}

// Registry exposes the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one finished report.
func (r *Recorder) Observe(report *models.Report) {
	if report == nil {
		return
	}

	r.runs.WithLabelValues(string(report.Status)).Inc()

	for _, f := range dimensions.Families() {
		if _, failed := report.Errors[f.String()]; failed {
			r.evaluationFailures.WithLabelValues(f.String()).Inc()
		}

		res := report.Evaluation(f)
		if res == nil {
			continue
		}
		r.familyScore.WithLabelValues(f.String(), res.QualityLevel.String()).Observe(res.OverallScore)
		for _, d := range f.Dimensions() {
			if v, ok := res.Score(d); ok {
				r.dimensionScore.WithLabelValues(f.String(), d.ID()).Observe(v)
			}
		}
		if n := len(res.Unanswered); n > 0 {
			r.unanswered.WithLabelValues(f.String()).Add(float64(n))
		}
	}

	if report.Status != models.StatusSkipped {
		md := report.PerformanceMetadata
		r.phaseDuration.WithLabelValues("conversation").Observe(md.ConversationDuration)
		r.phaseDuration.WithLabelValues("session_evaluation").Observe(md.SessionEvaluationDuration)
		r.phaseDuration.WithLabelValues("model_evaluation").Observe(md.ModelEvaluationDuration)
		r.phaseDuration.WithLabelValues("total").Observe(md.TotalDuration)
	}

	r.mu.Lock()
	r.observed++
	r.mu.Unlock()
}

// Observed returns how many reports were recorded.
func (r *Recorder) Observed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.observed
}

// WriteFile writes the registry in the Prometheus text format, suitable for
// the node exporter textfile collector.
func (r *Recorder) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
