package campaign

import (
	"bytes"

	"github.com/tidwall/gjson"
)

// AssignRequest is the JSON body accepted by the assignment endpoint.
type AssignRequest struct {
	Lead Lead `json:"lead"`
}

// AssignResponse is the JSON body returned for a successful assignment.
type AssignResponse struct {
	Status           string   `json:"status"`
	AssignedCampaign string   `json:"assigned_campaign"`
	CampaignID       string   `json:"campaign_id"`
	SmartleadID      string   `json:"smartlead_id"`
	MatchReason      string   `json:"match_reason,omitempty"`
	Strategy         Strategy `json:"strategy,omitempty"`
	Fallback         bool     `json:"fallback,omitempty"`
}

// NewAssignResponse flattens a MatchResult into the wire response.
func NewAssignResponse(result MatchResult) AssignResponse {
	return AssignResponse{
		Status:           result.Status,
		AssignedCampaign: result.Campaign.Name,
		CampaignID:       result.Campaign.ID,
		SmartleadID:      result.Campaign.SmartleadID,
		MatchReason:      result.Reason,
		Strategy:         result.Strategy,
		Fallback:         result.Fallback,
	}
}

// DecodeAssignRequest extracts the lead from a raw request body as
// submitted; Service.Assign normalizes it. The returned error is one of
// ErrEmptyBody, ErrMalformedJSON or ErrMissingLeadField.
func DecodeAssignRequest(body []byte) (Lead, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Lead{}, ErrEmptyBody
	}
	if !gjson.ValidBytes(trimmed) {
		return Lead{}, ErrMalformedJSON
	}

	root := gjson.ParseBytes(trimmed)
	if !root.IsObject() {
		return Lead{}, ErrMissingLeadField
	}

	raw := root.Get("lead")
	if !raw.IsObject() {
		return Lead{}, ErrMissingLeadField
	}

	lead := Lead{
		Name:     raw.Get("name").String(),
		Industry: raw.Get("industry").String(),
		Keywords: KeywordValues(raw.Get("keywords")),
	}

	return lead, nil
}

// KeywordValues reads keywords stored either as a JSON array or as a comma
// separated string.
func KeywordValues(value gjson.Result) []string {
	switch {
	case value.IsArray():
		items := value.Array()
		keywords := make([]string, 0, len(items))
		for _, item := range items {
			keywords = append(keywords, item.String())
		}
		return keywords
	case value.Type == gjson.String:
		return SplitKeywords(value.String())
	default:
		return nil
	}
}
