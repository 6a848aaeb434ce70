package campaign

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Store is a read-only source of campaigns.
type Store interface {
	ListCampaigns(ctx context.Context) ([]Campaign, error)
}

// Service fetches a fresh campaign list for every request and hands it to
// the selector.
type Service struct {
	store    Store
	selector *Selector
	timeout  time.Duration
}

// NewService wires a store and a selector. timeout bounds the campaign
// fetch; zero means DefaultTimeout.
func NewService(store Store, selector *Selector, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if selector == nil {
		selector = NewSelector()
	}
	return &Service{store: store, selector: selector, timeout: timeout}
}

// Strategy reports the selector's strategy.
func (s *Service) Strategy() Strategy {
	return s.selector.Strategy()
}

// Campaigns lists campaigns from the store. Failures are reported as
// ErrStoreUnavailable.
func (s *Service) Campaigns(ctx context.Context) ([]Campaign, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no campaign store configured", ErrStoreUnavailable)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	campaigns, err := s.store.ListCampaigns(fetchCtx)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return campaigns, nil
}

// Assign picks a campaign for lead from a freshly fetched list. A store
// that cannot be reached counts as having no campaigns; the returned error
// matches both ErrNoCampaignsAvailable and ErrStoreUnavailable.
func (s *Service) Assign(ctx context.Context, lead Lead) (MatchResult, error) {
	campaigns, err := s.Campaigns(ctx)
	if err != nil {
		return MatchResult{}, fmt.Errorf("%w: %w", ErrNoCampaignsAvailable, err)
	}
	if len(campaigns) == 0 {
		return MatchResult{}, ErrNoCampaignsAvailable
	}

	return s.selector.Select(ctx, lead.Normalize(), campaigns)
}
