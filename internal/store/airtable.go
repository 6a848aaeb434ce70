// Package store reads campaign lists from hosted data stores.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"leadrouter/internal/campaign"
)

const (
	DefaultAirtableURL = "https://api.airtable.com"

	airtablePageSize = 100
	airtableMaxPages = 50
	maxResponseBytes = 8 << 20
)

// FieldMap names the Airtable columns holding each campaign attribute.
type FieldMap struct {
	Name        string
	Description string
	Keywords    string
	SmartleadID string
}

// DefaultFieldMap matches the column names of the campaigns base.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		Name:        "Name",
		Description: "Description",
		Keywords:    "Keywords",
		SmartleadID: "SmartleadID",
	}
}

// AirtableConfig configures an Airtable-backed campaign store.
type AirtableConfig struct {
	APIKey     string
	BaseID     string
	Table      string
	View       string
	BaseURL    string
	Fields     FieldMap
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Airtable lists campaigns from one Airtable table. Every call reads the
// table afresh.
type Airtable struct {
	cfg AirtableConfig
}

func NewAirtable(cfg AirtableConfig) (*Airtable, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("airtable api key is required")
	}
	if strings.TrimSpace(cfg.BaseID) == "" || strings.TrimSpace(cfg.Table) == "" {
		return nil, errors.New("airtable base id and table name are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAirtableURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	defaults := DefaultFieldMap()
	if cfg.Fields.Name == "" {
		cfg.Fields.Name = defaults.Name
	}
	if cfg.Fields.Description == "" {
		cfg.Fields.Description = defaults.Description
	}
	if cfg.Fields.Keywords == "" {
		cfg.Fields.Keywords = defaults.Keywords
	}
	if cfg.Fields.SmartleadID == "" {
		cfg.Fields.SmartleadID = defaults.SmartleadID
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = campaign.DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Airtable{cfg: cfg}, nil
}

// ListCampaigns reads every record of the table, following pagination.
func (a *Airtable) ListCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	var (
		campaigns []campaign.Campaign
		offset    string
	)

	for page := 0; page < airtableMaxPages; page++ {
		body, err := a.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: airtable: %w", campaign.ErrStoreUnavailable, err)
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%w: airtable: response is not valid json", campaign.ErrStoreUnavailable)
		}

		result := gjson.ParseBytes(body)
		for _, record := range result.Get("records").Array() {
			campaigns = append(campaigns, a.decodeRecord(record))
		}

		offset = result.Get("offset").String()
		if offset == "" {
			return campaigns, nil
		}
	}

	return nil, fmt.Errorf("%w: airtable: more than %d pages", campaign.ErrStoreUnavailable, airtableMaxPages)
}

func (a *Airtable) fetchPage(ctx context.Context, offset string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v0/%s/%s", a.cfg.BaseURL, url.PathEscape(a.cfg.BaseID), url.PathEscape(a.cfg.Table))

	query := url.Values{}
	query.Set("pageSize", fmt.Sprint(airtablePageSize))
	if a.cfg.View != "" {
		query.Set("view", a.cfg.View)
	}
	if offset != "" {
		query.Set("offset", offset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	res, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		message := gjson.GetBytes(snippet, "error.message").String()
		if message == "" {
			message = gjson.GetBytes(snippet, "error").String()
		}
		if message == "" {
			message = strings.TrimSpace(string(snippet))
		}
		return nil, fmt.Errorf("list records status %d: %s", res.StatusCode, message)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return body, nil
}

func (a *Airtable) decodeRecord(record gjson.Result) campaign.Campaign {
	fields := record.Get("fields").Map()

	return campaign.Campaign{
		ID:          record.Get("id").String(),
		Name:        fields[a.cfg.Fields.Name].String(),
		Description: fields[a.cfg.Fields.Description].String(),
		Keywords:    nonNil(campaign.KeywordValues(fields[a.cfg.Fields.Keywords])),
		SmartleadID: fields[a.cfg.Fields.SmartleadID].String(),
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
