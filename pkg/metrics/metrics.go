package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes
const (
	OutcomeCreated    = "created"
	OutcomeReplayed   = "replayed"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "validation"
	OutcomeError      = "error"
)

// Metrics holds the scheduling metrics
type Metrics struct {
	SlotPreviews      *prometheus.CounterVec
	SlotsReturned     prometheus.Histogram
	BookingSubmits    *prometheus.CounterVec
	SubmitLatency     prometheus.Histogram
	AppointmentCancel prometheus.Counter
}

// NewMetrics creates and registers all scheduling metrics on reg
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SlotPreviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "slot_previews_total",
			Help:      "Total number of slot preview requests",
		}, []string{"status"}),
		SlotsReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "slots_returned",
			Help:      "Number of bookable start times returned per preview",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 40},
		}),
		BookingSubmits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "booking_submissions_total",
			Help:      "Total number of booking submissions by outcome",
		}, []string{"outcome"}),
		SubmitLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "booking_submission_duration_seconds",
			Help:      "Time spent validating and committing a booking",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		AppointmentCancel: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "appointment_cancellations_total",
			Help:      "Total number of cancelled appointments",
		}),
	}
}

func (m *Metrics) ObservePreview(status string, slots int) {
	m.SlotPreviews.WithLabelValues(status).Inc()
	if status == "ok" {
		m.SlotsReturned.Observe(float64(slots))
	}
}

func (m *Metrics) ObserveSubmission(outcome string, elapsed time.Duration) {
	m.BookingSubmits.WithLabelValues(outcome).Inc()
	m.SubmitLatency.Observe(elapsed.Seconds())
}
