package web

import (
	"errors"
	"net/http"
	"strings"

	"leadrouter/internal/campaign"
)

// ErrLeadNameRequired is returned when the intake form has no company name.
var ErrLeadNameRequired = errors.New("company name is required")

// ParseLeadForm reads the intake form fields into a lead. Keywords are
// comma-separated; a blank company name is rejected.
func ParseLeadForm(r *http.Request) (campaign.Lead, error) {
	if err := r.ParseForm(); err != nil {
		return campaign.Lead{}, err
	}

	lead := campaign.Lead{
		Name:     r.PostFormValue("name"),
		Industry: r.PostFormValue("industry"),
		Keywords: campaign.SplitKeywords(r.PostFormValue("keywords")),
	}

	if strings.TrimSpace(lead.Name) == "" {
		return lead, ErrLeadNameRequired
	}
	return lead, nil
}
