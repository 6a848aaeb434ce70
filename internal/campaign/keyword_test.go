package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectByKeywordsPicksLargestOverlap(t *testing.T) {
	campaigns := []Campaign{
		{ID: "c1", Keywords: []string{"retail"}},
		{ID: "c2", Keywords: []string{"AI", "Cloud", "ml"}},
		{ID: "c3", Keywords: []string{"cloud"}},
	}

	result, err := SelectByKeywords(exampleLead(), campaigns)
	require.NoError(t, err)
	assert.Equal(t, "c2", result.Campaign.ID)
	assert.Equal(t, "Matched based on keywords: AI, Cloud", result.Reason)
	assert.Equal(t, StrategyKeyword, result.Strategy)
	assert.False(t, result.Fallback)
}

func TestSelectByKeywordsTieGoesToEarlierCampaign(t *testing.T) {
	result, err := SelectByKeywords(exampleLead(), exampleCampaigns())
	require.NoError(t, err)
	assert.Equal(t, "c1", result.Campaign.ID)
}

func TestSelectByKeywordsCountsIndustry(t *testing.T) {
	campaigns := []Campaign{
		{ID: "c1", Keywords: []string{"retail"}},
		{ID: "c2", Keywords: []string{"technology"}},
	}

	result, err := SelectByKeywords(Lead{Name: "x", Industry: "Technology"}, campaigns)
	require.NoError(t, err)
	assert.Equal(t, "c2", result.Campaign.ID)
}

func TestSelectByKeywordsWithoutOverlapFallsBack(t *testing.T) {
	result, err := SelectByKeywords(Lead{Name: "x", Keywords: []string{"mining"}}, exampleCampaigns())
	require.NoError(t, err)
	assert.Equal(t, "c1", result.Campaign.ID)
	assert.True(t, result.Fallback)
	assert.Equal(t, "no keyword overlap", result.FallbackReason)
}
