package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"townboard/backend/internal/config"
)

func testHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{JWTSecret: "test-secret", BaseURL: "https://townboard.example"}
	return New(nil, nil, nil, nil, cfg, logger)
}

// TestPreviewSEODerivesFields verifies the dry-run endpoint derives listing fields without storage.
func TestPreviewSEODerivesFields(t *testing.T) {
	h := testHandler()

	body := `{
		"title": "Michigan Antique Festival",
		"description": "Antiques, collectibles. Admission $10.",
		"address": "2156 Rudy Ct, Midland, MI, USA",
		"date": "2025-09-27",
		"startTime": "09:00",
		"endTime": "17:00",
		"feeRequired": "$10 at the gate"
	}`
	req := httptest.NewRequest(http.MethodPost, "/admin/seo/preview", strings.NewReader(body))
	resp := httptest.NewRecorder()
	h.PreviewSEO(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Slug             string   `json:"slug"`
		City             string   `json:"city"`
		State            string   `json:"state"`
		Country          string   `json:"country"`
		Price            *float64 `json:"price"`
		Currency         string   `json:"currency"`
		StartDatetime    string   `json:"startDatetime"`
		EndDatetime      string   `json:"endDatetime"`
		ShortDescription string   `json:"shortDescription"`
		MissingFields    []string `json:"missingFields"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Slug != "michigan-antique-festival-midland" {
		t.Fatalf("unexpected slug %q", out.Slug)
	}
	if out.City != "Midland" || out.State != "MI" || out.Country != "USA" {
		t.Fatalf("unexpected location %q %q %q", out.City, out.State, out.Country)
	}
	if out.Price == nil || *out.Price != 10 {
		t.Fatalf("expected price 10, got %v", out.Price)
	}
	if out.Currency != "USD" {
		t.Fatalf("expected USD, got %q", out.Currency)
	}
	if out.StartDatetime != "2025-09-27T09:00:00" || out.EndDatetime != "2025-09-27T17:00:00" {
		t.Fatalf("unexpected datetimes %q %q", out.StartDatetime, out.EndDatetime)
	}
	if out.ShortDescription == "" {
		t.Fatalf("expected short description")
	}
	if len(out.MissingFields) != 0 {
		t.Fatalf("expected no missing fields, got %v", out.MissingFields)
	}
}

// TestPreviewSEORequiresTitle verifies the dry-run endpoint rejects payloads without a title.
func TestPreviewSEORequiresTitle(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/admin/seo/preview", strings.NewReader(`{"description":"no title"}`))
	resp := httptest.NewRecorder()
	h.PreviewSEO(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

// TestPreviewSEOReportsMissing verifies underivable fields come back in missingFields.
func TestPreviewSEOReportsMissing(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/admin/seo/preview", strings.NewReader(`{"title":"Mystery Meetup"}`))
	resp := httptest.NewRecorder()
	h.PreviewSEO(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var out struct {
		Slug          string   `json:"slug"`
		MissingFields []string `json:"missingFields"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Slug != "mystery-meetup" {
		t.Fatalf("unexpected slug %q", out.Slug)
	}
	want := map[string]bool{"city": false, "state": false, "start_datetime": false, "short_description": false}
	for _, field := range out.MissingFields {
		if _, ok := want[field]; ok {
			want[field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected %s in missing fields, got %v", field, out.MissingFields)
		}
	}
}

// TestHideEventRejectsBadID verifies the hide endpoint validates the id param.
func TestHideEventRejectsBadID(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest(http.MethodPost, "/admin/events/abc/hide", nil)
	resp := httptest.NewRecorder()
	h.HideEvent(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
