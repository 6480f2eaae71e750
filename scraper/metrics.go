package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the scraper.
type Metrics struct {
	Registry           *prometheus.Registry
	NavigationsTotal   *prometheus.CounterVec
	NavigationDuration prometheus.Histogram
	ListingPagesTotal  prometheus.Counter
	EntriesTotal       prometheus.Counter
	PostsTotal         prometheus.Counter
	DetailAbortsTotal  *prometheus.CounterVec
	ErrorsTotal        *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	navigations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_navigations_total",
			Help: "Total page navigations issued by the scraper.",
		},
		[]string{"phase"},
	)
	navigationDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_navigation_duration_seconds",
			Help:    "Time from navigation start until the network went idle.",
			Buckets: prometheus.DefBuckets,
		},
	)
	listingPages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_listing_pages_total",
			Help: "Total listing pages parsed.",
		},
	)
	entries := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_entries_collected_total",
			Help: "Total listing entries collected.",
		},
	)
	posts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_posts_enriched_total",
			Help: "Total posts extracted from detail pages.",
		},
	)
	aborts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_detail_aborts_total",
			Help: "Detail phases that stopped early, by reason.",
		},
		[]string{"reason"},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "Total number of scraper errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(navigations, navigationDuration, listingPages, entries, posts, aborts, errorsTotal)

	return &Metrics{
		Registry:           registry,
		NavigationsTotal:   navigations,
		NavigationDuration: navigationDuration,
		ListingPagesTotal:  listingPages,
		EntriesTotal:       entries,
		PostsTotal:         posts,
		DetailAbortsTotal:  aborts,
		ErrorsTotal:        errorsTotal,
	}
}

// IncNavigation increments the navigations counter for a phase.
func (m *Metrics) IncNavigation(phase string) {
	if m == nil {
		return
	}
	m.NavigationsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records a navigation duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.NavigationDuration.Observe(d.Seconds())
}

// IncListingPage counts one parsed listing page.
func (m *Metrics) IncListingPage() {
	if m == nil {
		return
	}
	m.ListingPagesTotal.Inc()
}

// AddEntries counts collected entries.
func (m *Metrics) AddEntries(n int) {
	if m == nil {
		return
	}
	m.EntriesTotal.Add(float64(n))
}

// IncPosts increments the posts counter.
func (m *Metrics) IncPosts() {
	if m == nil {
		return
	}
	m.PostsTotal.Inc()
}

// IncAbort counts a soft abort of the detail phase.
func (m *Metrics) IncAbort(reason string) {
	if m == nil {
		return
	}
	m.DetailAbortsTotal.WithLabelValues(reason).Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
