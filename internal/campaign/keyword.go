package campaign

import (
	"strings"
)

// SelectByKeywords scores every campaign by how many of the lead's keywords
// (and its industry) appear in the campaign's keyword set. The highest
// score wins and ties go to the earlier campaign. Without any overlap the
// first campaign is returned as a fallback.
func SelectByKeywords(lead Lead, campaigns []Campaign) (MatchResult, error) {
	if len(campaigns) == 0 {
		return MatchResult{}, ErrNoCampaignsAvailable
	}

	needles := leadNeedles(lead)

	bestIndex, bestScore := 0, 0
	var bestHits []string
	for i, c := range campaigns {
		hits := overlap(needles, c.Keywords)
		if len(hits) > bestScore {
			bestIndex, bestScore, bestHits = i, len(hits), hits
		}
	}

	if bestScore == 0 {
		return MatchResult{
			Campaign:       campaigns[0],
			Reason:         keywordSummary(campaigns[0]),
			Status:         StatusSuccess,
			Strategy:       StrategyKeyword,
			Fallback:       true,
			FallbackReason: "no keyword overlap",
		}, nil
	}

	return MatchResult{
		Campaign: campaigns[bestIndex],
		Reason:   "Matched based on keywords: " + strings.Join(bestHits, ", "),
		Status:   StatusSuccess,
		Strategy: StrategyKeyword,
	}, nil
}

func leadNeedles(lead Lead) []string {
	needles := make([]string, 0, len(lead.Keywords)+1)
	seen := map[string]struct{}{}
	add := func(raw string) {
		needle := strings.ToLower(strings.TrimSpace(raw))
		if needle == "" {
			return
		}
		if _, ok := seen[needle]; ok {
			return
		}
		seen[needle] = struct{}{}
		needles = append(needles, needle)
	}

	for _, keyword := range lead.Keywords {
		add(keyword)
	}
	add(lead.Industry)
	return needles
}

// overlap returns the campaign keywords matched by needles, in campaign order.
func overlap(needles []string, keywords []string) []string {
	if len(needles) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(needles))
	for _, needle := range needles {
		wanted[needle] = struct{}{}
	}

	var hits []string
	seen := map[string]struct{}{}
	for _, keyword := range keywords {
		candidate := strings.ToLower(strings.TrimSpace(keyword))
		if candidate == "" {
			continue
		}
		if _, ok := wanted[candidate]; !ok {
			continue
		}
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		hits = append(hits, strings.TrimSpace(keyword))
	}
	return hits
}
