// Package metrics exposes Prometheus instruments for assignments and the
// upstream calls made to serve them.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"leadrouter/internal/campaign"
)

const namespace = "leadrouter"

var (
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assignments_total",
		Help:      "Assignment requests by surface, strategy and outcome.",
	}, []string{"surface", "strategy", "outcome"})

	fallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "selection_fallbacks_total",
		Help:      "Selections that degraded to the first campaign, by strategy.",
	}, []string{"strategy"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of campaign store and completion engine calls.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"upstream", "outcome"})
)

// RecordAssignment counts one assignment attempt. err classifies the outcome.
func RecordAssignment(surface string, strategy campaign.Strategy, result campaign.MatchResult, err error) {
	assignmentsTotal.WithLabelValues(surface, string(strategy), Outcome(err)).Inc()
	if err == nil && result.Fallback {
		fallbacksTotal.WithLabelValues(string(result.Strategy)).Inc()
	}
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, campaign.ErrEmptyBody),
		errors.Is(err, campaign.ErrMalformedJSON),
		errors.Is(err, campaign.ErrMissingLeadField):
		return "bad_request"
	case errors.Is(err, campaign.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, campaign.ErrNoCampaignsAvailable):
		return "no_campaigns"
	case errors.Is(err, campaign.ErrCompletionUnavailable):
		return "completion_unavailable"
	case errors.Is(err, campaign.ErrRecommendationParse):
		return "parse_error"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

type instrumentedStore struct {
	next campaign.Store
}

// InstrumentStore times every ListCampaigns call of next.
func InstrumentStore(next campaign.Store) campaign.Store {
	if next == nil {
		return nil
	}
	return &instrumentedStore{next: next}
}

func (s *instrumentedStore) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	start := time.Now()
	campaigns, err := s.next.ListCampaigns(ctx)
	upstreamDuration.WithLabelValues("campaign_store", Outcome(err)).Observe(time.Since(start).Seconds())
	return campaigns, err
}

type instrumentedCompleter struct {
	next campaign.Completer
}

// InstrumentCompleter times every Complete call of next.
func InstrumentCompleter(next campaign.Completer) campaign.Completer {
	if next == nil {
		return nil
	}
	return &instrumentedCompleter{next: next}
}

func (c *instrumentedCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	start := time.Now()
	reply, err := c.next.Complete(ctx, prompt, maxTokens, temperature)
	upstreamDuration.WithLabelValues("completion_engine", Outcome(err)).Observe(time.Since(start).Seconds())
	return reply, err
}
