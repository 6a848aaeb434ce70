package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
)

func postForm(t *testing.T, handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "/web/assign", strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestWebRouteServesIntakeForm(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	r := s.RegisterRoutes()

	req, err := http.NewRequest(http.MethodGet, "/web", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	body := rr.Body.String()
	checks := []string{
		"Lead Campaign Selector",
		"id=\"lead-form\"",
		"id=\"lead-name\"",
		"id=\"lead-industry\"",
		"id=\"lead-keywords\"",
		"id=\"recent-assignments\"",
	}

	for _, check := range checks {
		if !strings.Contains(body, check) {
			t.Fatalf("expected intake html to contain %q", check)
		}
	}
}

func TestWebAssignRendersResultAndRecordsSurface(t *testing.T) {
	db := newTestAdapter(t)
	s := newTestServer(t, db, stubStore{campaigns: exampleCampaigns()},
		campaign.WithStrategy(campaign.StrategyAI),
		campaign.WithCompleter(stubCompleter{reply: "2."}),
	)

	rr := postForm(t, s.RegisterRoutes(), url.Values{
		"name":     {"Example Corp"},
		"industry": {"Technology"},
		"keywords": {"AI, cloud"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	body := rr.Body.String()
	for _, check := range []string{"id=\"assignment-result\"", "Cloud Drive", "sl-2"} {
		if !strings.Contains(body, check) {
			t.Fatalf("expected result html to contain %q", check)
		}
	}

	records, err := db.ListAssignments(context.Background(), database.AssignmentFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Surface != surfaceWeb {
		t.Fatalf("expected one web ledger row, got %+v", records)
	}
}

func TestWebAssignRequiresCompanyName(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	rr := postForm(t, s.RegisterRoutes(), url.Values{"industry": {"Retail"}})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Please enter a company name.") {
		t.Fatal("expected name validation banner")
	}
}

func TestWebAssignWithoutCampaignsShowsBanner(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{})
	rr := postForm(t, s.RegisterRoutes(), url.Values{"name": {"Example Corp"}})

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No campaigns available") {
		t.Fatal("expected no campaigns banner")
	}
}
