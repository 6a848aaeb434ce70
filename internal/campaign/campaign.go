// Package campaign holds the lead-to-campaign assignment core: the domain
// types, the selection strategies, and the service that ties a campaign
// store to a selector.
package campaign

import (
	"strings"
)

// StatusSuccess is the only status a MatchResult is ever returned with.
const StatusSuccess = "success"

// Lead is a prospective customer submitted for campaign assignment.
type Lead struct {
	Name     string   `json:"name"`
	Industry string   `json:"industry,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Campaign is a read-only snapshot of one outreach track from the store.
type Campaign struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords"`
	SmartleadID string   `json:"smartlead_id"`
}

// MatchResult is the outcome of a selection. Campaign is always an element
// of the list the selector was given.
type MatchResult struct {
	Campaign       Campaign `json:"campaign"`
	Reason         string   `json:"match_reason"`
	Status         string   `json:"status"`
	Strategy       Strategy `json:"strategy"`
	Fallback       bool     `json:"fallback"`
	FallbackReason string   `json:"fallback_reason,omitempty"`
}

// Normalize trims the lead's fields and drops blank or repeated keywords,
// keeping the first spelling of each.
func (l Lead) Normalize() Lead {
	out := Lead{
		Name:     strings.TrimSpace(l.Name),
		Industry: strings.TrimSpace(l.Industry),
	}

	seen := make(map[string]struct{}, len(l.Keywords))
	for _, raw := range l.Keywords {
		keyword := strings.TrimSpace(raw)
		if keyword == "" {
			continue
		}
		key := strings.ToLower(keyword)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Keywords = append(out.Keywords, keyword)
	}

	return out
}

// SplitKeywords turns a comma separated list into trimmed, non-empty keywords.
func SplitKeywords(value string) []string {
	parts := strings.Split(value, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if keyword := strings.TrimSpace(part); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

func keywordSummary(c Campaign) string {
	if len(c.Keywords) == 0 {
		return "Matched based on keywords: none listed"
	}
	return "Matched based on keywords: " + strings.Join(c.Keywords, ", ")
}
