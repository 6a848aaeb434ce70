package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"leadrouter/internal/campaign"
	"leadrouter/internal/database"
	"leadrouter/internal/ledger"
)

func performRaw(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(method, path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected json error body: %v (%s)", err, rr.Body.String())
	}
	return body["error"]
}

func TestPostAssignExampleCorpPicksRecommendedCampaign(t *testing.T) {
	db := newTestAdapter(t)
	s := newTestServer(t, db, stubStore{campaigns: exampleCampaigns()},
		campaign.WithStrategy(campaign.StrategyAI),
		campaign.WithCompleter(stubCompleter{reply: "2."}),
	)
	handler := s.RegisterRoutes()

	rr := performRaw(t, handler, http.MethodPost, "/api/assign",
		`{"lead":{"name":"Example Corp","industry":"Technology","keywords":["AI","cloud"]}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var got campaign.AssignResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("expected valid json response: %v", err)
	}
	if got.Status != "success" {
		t.Fatalf("expected status success, got %q", got.Status)
	}
	if got.CampaignID != "c2" || got.AssignedCampaign != "Cloud Drive" || got.SmartleadID != "sl-2" {
		t.Fatalf("expected Cloud Drive (c2, sl-2), got %+v", got)
	}
	if got.Strategy != campaign.StrategyAI || got.Fallback {
		t.Fatalf("expected non-fallback ai selection, got %+v", got)
	}

	records, err := db.ListAssignments(context.Background(), database.AssignmentFilters{})
	if err != nil {
		t.Fatalf("expected ledger query to work: %v", err)
	}
	if len(records) != 1 || records[0].CampaignID != "c2" || records[0].Surface != surfaceAPI {
		t.Fatalf("expected one api ledger row for c2, got %+v", records)
	}
	if records[0].LeadKeywords != `["AI","cloud"]` {
		t.Fatalf("expected lead keywords to be recorded, got %q", records[0].LeadKeywords)
	}
}

func TestPostAssignFirstStrategyReturnsHeadOfList(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Solo"}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"campaign_id":"c1"`) {
		t.Fatalf("expected c1, got %s", rr.Body.String())
	}
}

func TestPostAssignRequestErrors(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	handler := s.RegisterRoutes()

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty body", body: "", message: "Empty request body"},
		{name: "malformed json", body: `{"lead":`, message: "Invalid JSON"},
		{name: "missing lead", body: `{"name":"Example Corp"}`, message: "Invalid request format"},
		{name: "null lead", body: `{"lead":null}`, message: "Invalid request format"},
		{name: "string lead", body: `{"lead":"Example Corp"}`, message: "Invalid request format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := performRaw(t, handler, http.MethodPost, "/api/assign", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
			}
			if got := decodeError(t, rr); got != tc.message {
				t.Fatalf("expected error %q, got %q", tc.message, got)
			}
		})
	}
}

func TestPostAssignWithoutCampaignsIsNotFound(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{})
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Example Corp"}}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if got := decodeError(t, rr); got != "No campaigns available" {
		t.Fatalf("expected no campaigns message, got %q", got)
	}
}

func TestPostAssignStoreFailureIsNotFound(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{err: errors.New("airtable: dial tcp: connection refused")})
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Example Corp"}}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if got := decodeError(t, rr); got != "No campaigns available" {
		t.Fatalf("expected no campaigns message, got %q", got)
	}
	if strings.Contains(rr.Body.String(), "dial tcp") {
		t.Fatalf("expected transport details to stay out of the response, got %s", rr.Body.String())
	}
}

func TestPostAssignRejectsOversizedBody(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	body := `{"lead":{"name":"` + strings.Repeat("x", maxAssignBodyBytes) + `"}}`
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", body)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, rr.Code)
	}
	if got := decodeError(t, rr); got != "Request body too large" {
		t.Fatalf("expected body too large message, got %q", got)
	}

	records, err := s.db.ListAssignments(context.Background(), database.AssignmentFilters{})
	if err != nil {
		t.Fatalf("expected ledger read to succeed, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no ledger rows, got %d", len(records))
	}
}

func TestPostAssignStrictPolicySurfacesParseFailure(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()},
		campaign.WithStrategy(campaign.StrategyAI),
		campaign.WithCompleter(stubCompleter{reply: "I recommend the cloud one"}),
		campaign.WithFallbackToFirst(false),
	)
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Example Corp"}}`)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
}

func TestPostAssignFallbackIsFlagged(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()},
		campaign.WithStrategy(campaign.StrategyAI),
		campaign.WithCompleter(stubCompleter{reply: "7."}),
	)
	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Example Corp"}}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"campaign_id":"c1"`) || !strings.Contains(rr.Body.String(), `"fallback":true`) {
		t.Fatalf("expected fallback to c1, got %s", rr.Body.String())
	}
}

func TestPostAssignQueuesRecordWhenLedgerWriteFails(t *testing.T) {
	db := newTestAdapter(t)
	s := newTestServer(t, failingLedger{Service: db}, stubStore{campaigns: exampleCampaigns()})

	rr := performRaw(t, s.RegisterRoutes(), http.MethodPost, "/api/assign", `{"lead":{"name":"Queued Corp"}}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected assignment to succeed despite ledger failure, got %d", rr.Code)
	}

	files, err := filepath.Glob(filepath.Join(s.ledger.QueueDir(), "*.md"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one queue file, got %v", files)
	}
	body, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Queued Corp") {
		t.Fatalf("expected queued record for Queued Corp, got %s", body)
	}

	flushed, err := ledger.Flush(context.Background(), db, s.ledger.QueueDir())
	if err != nil {
		t.Fatalf("expected flush to work: %v", err)
	}
	if flushed != 1 {
		t.Fatalf("expected 1 flushed record, got %d", flushed)
	}
}

func TestGetCampaignsReturnsStoreList(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	rr := performRaw(t, s.RegisterRoutes(), http.MethodGet, "/api/campaigns", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var got []campaign.Campaign
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c1" {
		t.Fatalf("expected the store list in order, got %+v", got)
	}
}

func TestGetCampaignsStoreFailure(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{err: errors.New("timeout")})
	rr := performRaw(t, s.RegisterRoutes(), http.MethodGet, "/api/campaigns", "")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if got := decodeError(t, rr); got != "No campaigns available" {
		t.Fatalf("expected no campaigns message, got %q", got)
	}
}

func TestGetAssignmentsSupportsFilters(t *testing.T) {
	db := newTestAdapter(t)
	s := newTestServer(t, db, stubStore{campaigns: exampleCampaigns()})
	handler := s.RegisterRoutes()

	for _, body := range []string{`{"lead":{"name":"One"}}`, `{"lead":{"name":"Two"}}`} {
		if rr := performRaw(t, handler, http.MethodPost, "/api/assign", body); rr.Code != http.StatusOK {
			t.Fatalf("expected assignment to succeed, got %d", rr.Code)
		}
	}

	rr := performRaw(t, handler, http.MethodGet, "/api/assignments?campaign=c1&strategy=first&limit=1", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rr.Code, rr.Body.String())
	}

	var records []database.AssignmentRecord
	if err := json.Unmarshal(rr.Body.Bytes(), &records); err != nil {
		t.Fatalf("expected valid json: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected limit to apply, got %d rows", len(records))
	}

	rr = performRaw(t, handler, http.MethodGet, "/api/assignments?campaign=c2", "")
	if !bytes.Equal(bytes.TrimSpace(rr.Body.Bytes()), []byte("[]")) {
		t.Fatalf("expected no rows for c2, got %s", rr.Body.String())
	}
}

func TestGetAssignmentsRejectsBadQuery(t *testing.T) {
	s := newTestServer(t, newTestAdapter(t), stubStore{campaigns: exampleCampaigns()})
	handler := s.RegisterRoutes()

	for _, path := range []string{"/api/assignments?date=19-02-2026", "/api/assignments?limit=abc", "/api/assignments?limit=0"} {
		rr := performRaw(t, handler, http.MethodGet, path, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d for %s, got %d", http.StatusBadRequest, path, rr.Code)
		}
	}
}
