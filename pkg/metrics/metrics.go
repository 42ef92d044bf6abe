package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the review and moderation collectors.
type Metrics struct {
	ReviewsCreated    prometheus.Counter
	ReviewLikes       prometheus.Counter
	FlagsRecorded     prometheus.Counter
	AutoHides         prometheus.Counter
	ModerationActions *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		ReviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "film_catalog",
			Name:      "reviews_created_total",
			Help:      "Reviews created.",
		}),
		ReviewLikes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "film_catalog",
			Name:      "review_likes_total",
			Help:      "Likes recorded on reviews.",
		}),
		FlagsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "film_catalog",
			Name:      "review_flags_total",
			Help:      "Flags recorded against reviews.",
		}),
		AutoHides: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "film_catalog",
			Name:      "review_auto_hides_total",
			Help:      "Reviews hidden because their flag count reached the threshold.",
		}),
		ModerationActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "film_catalog",
			Name:      "moderation_actions_total",
			Help:      "Explicit admin hide/unhide actions.",
		}, []string{"action"}),
		gatherer: gatherer,
	}

	reg.MustRegister(m.ReviewsCreated, m.ReviewLikes, m.FlagsRecorded, m.AutoHides, m.ModerationActions)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
