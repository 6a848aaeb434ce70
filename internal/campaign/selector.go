package campaign

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Strategy names a way of picking one campaign for a lead.
type Strategy string

const (
	// StrategyFirst always picks the first campaign in the list.
	StrategyFirst Strategy = "first"
	// StrategyAI asks a completion engine for the number of the best campaign.
	StrategyAI Strategy = "ai"
	// StrategyKeyword picks the campaign sharing the most keywords with the lead.
	StrategyKeyword Strategy = "keyword"
)

const (
	DefaultMaxTokens   = 5
	DefaultTemperature = 0.3
	DefaultTimeout     = 5 * time.Second
)

// ParseStrategy validates a strategy name.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategyFirst, "naive", "":
		return StrategyFirst, nil
	case StrategyAI:
		return StrategyAI, nil
	case StrategyKeyword:
		return StrategyKeyword, nil
	default:
		return "", fmt.Errorf("unknown selection strategy %q (want first, ai or keyword)", value)
	}
}

// Completer is a text-completion capability used by the ai strategy.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

// Selector picks a single campaign for a lead. It holds no per-request
// state and is safe for concurrent use.
type Selector struct {
	strategy        Strategy
	completer       Completer
	fallbackToFirst bool
	maxTokens       int
	temperature     float64
	timeout         time.Duration
	logger          *zap.Logger
}

// Option configures a Selector.
type Option func(*Selector)

func WithStrategy(strategy Strategy) Option {
	return func(s *Selector) { s.strategy = strategy }
}

func WithCompleter(completer Completer) Option {
	return func(s *Selector) { s.completer = completer }
}

// WithFallbackToFirst controls whether a failed ai recommendation degrades
// to the first campaign (true) or is returned as an error (false).
func WithFallbackToFirst(enabled bool) Option {
	return func(s *Selector) { s.fallbackToFirst = enabled }
}

func WithSampling(maxTokens int, temperature float64) Option {
	return func(s *Selector) {
		if maxTokens > 0 {
			s.maxTokens = maxTokens
		}
		if temperature >= 0 {
			s.temperature = temperature
		}
	}
}

// WithTimeout bounds each completion call.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Selector) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSelector returns a selector using the first strategy with fallback
// enabled unless options say otherwise.
func NewSelector(opts ...Option) *Selector {
	s := &Selector{
		strategy:        StrategyFirst,
		fallbackToFirst: true,
		maxTokens:       DefaultMaxTokens,
		temperature:     DefaultTemperature,
		timeout:         DefaultTimeout,
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy reports the configured strategy.
func (s *Selector) Strategy() Strategy {
	return s.strategy
}

// Select returns the best campaign for lead according to the configured
// strategy. An empty list always fails with ErrNoCampaignsAvailable.
func (s *Selector) Select(ctx context.Context, lead Lead, campaigns []Campaign) (MatchResult, error) {
	if len(campaigns) == 0 {
		return MatchResult{}, ErrNoCampaignsAvailable
	}

	switch s.strategy {
	case StrategyAI:
		return s.selectAI(ctx, lead, campaigns)
	case StrategyKeyword:
		return SelectByKeywords(lead, campaigns)
	default:
		return SelectFirst(campaigns)
	}
}

// SelectFirst returns campaigns[0].
func SelectFirst(campaigns []Campaign) (MatchResult, error) {
	if len(campaigns) == 0 {
		return MatchResult{}, ErrNoCampaignsAvailable
	}
	return MatchResult{
		Campaign: campaigns[0],
		Reason:   "Default assignment: first available campaign",
		Status:   StatusSuccess,
		Strategy: StrategyFirst,
	}, nil
}

func (s *Selector) selectAI(ctx context.Context, lead Lead, campaigns []Campaign) (MatchResult, error) {
	if s.completer == nil {
		return s.fallback(campaigns, fmt.Errorf("%w: no completion engine configured", ErrCompletionUnavailable))
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.completer.Complete(callCtx, RenderPrompt(lead, campaigns), s.maxTokens, s.temperature)
	if err != nil {
		if !errors.Is(err, ErrCompletionUnavailable) {
			err = fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
		}
		return s.fallback(campaigns, err)
	}

	index, err := ParseRecommendation(reply, len(campaigns))
	if err != nil {
		return s.fallback(campaigns, err)
	}

	selected := campaigns[index]
	return MatchResult{
		Campaign: selected,
		Reason:   keywordSummary(selected),
		Status:   StatusSuccess,
		Strategy: StrategyAI,
	}, nil
}

func (s *Selector) fallback(campaigns []Campaign, cause error) (MatchResult, error) {
	if !s.fallbackToFirst {
		return MatchResult{}, cause
	}

	s.logger.Warn("ai recommendation failed, assigning first campaign",
		zap.Error(cause),
		zap.String("campaign_id", campaigns[0].ID),
	)

	return MatchResult{
		Campaign:       campaigns[0],
		Reason:         keywordSummary(campaigns[0]),
		Status:         StatusSuccess,
		Strategy:       StrategyAI,
		Fallback:       true,
		FallbackReason: cause.Error(),
	}, nil
}
