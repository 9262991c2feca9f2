package service

import (
	"context"
	"net/http"
	"testing"
	"time"
)

// summaryHandler fakes the three endpoints the summary fans out to.
func summaryHandler(t *testing.T, current, previous string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/account":
			w.Write([]byte(`{"email": "owner@example.com", "plan": [{"type": "subscription", "credits": 1000}]}`))
		case "/contacts":
			w.Write([]byte(`{"contacts": [{"id": 1, "email": "a@example.com"}], "count": 2500}`))
		case "/emailCampaigns":
			// The current window ends today; the comparison window is
			// strictly in the past.
			if r.URL.Query().Get("limit") == "" {
				t.Error("limit missing from campaign query")
			}
			w.Write([]byte(current))
			if previous != "" {
				// Switch bodies after the first campaigns fetch.
				current = previous
			}
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestGetAnalyticsSummary(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	current := `{"campaigns": [
		{"id": 1, "name": "A", "status": "sent", "sentDate": "2025-06-10T08:00:00Z",
			"statistics": {"globalStats": {"sent": 1000, "delivered": 990, "uniqueViews": 300, "uniqueClicks": 50}}}
	], "count": 1}`

	svc := newTestService(t, summaryHandler(t, current, ""))
	svc.now = func() time.Time { return now }

	summary, err := svc.GetAnalyticsSummary(context.Background(), SummaryQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Period != "last7days" {
		t.Errorf("Period = %q", summary.Period)
	}
	if summary.Range.Start != "2025-06-08" || summary.Range.End != "2025-06-15" {
		t.Errorf("Range = %+v", summary.Range)
	}
	if summary.Account.Email != "owner@example.com" || summary.Account.Plan != "subscription" {
		t.Errorf("Account = %+v", summary.Account)
	}
	if summary.Metrics.Emails == nil || summary.Metrics.Emails.Sent != 1000 {
		t.Errorf("email metrics = %+v", summary.Metrics.Emails)
	}
	if summary.Metrics.Contacts == nil || summary.Metrics.Contacts.Total != 2500 {
		t.Errorf("contact metrics = %+v", summary.Metrics.Contacts)
	}
	if summary.Metrics.Campaigns == nil || summary.Metrics.Campaigns.Count != 1 {
		t.Errorf("campaign metrics = %+v", summary.Metrics.Campaigns)
	}
	if len(summary.Insights) == 0 {
		t.Error("expected at least one insight")
	}
	if len(summary.TopCampaigns) != 1 {
		t.Errorf("top campaigns = %d", len(summary.TopCampaigns))
	}
	if summary.Changes != nil {
		t.Error("Changes should be absent without comparison")
	}
}

func TestGetAnalyticsSummaryWithComparison(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	current := `{"campaigns": [
		{"id": 1, "name": "A", "status": "sent", "sentDate": "2025-06-10T08:00:00Z",
			"statistics": {"globalStats": {"sent": 1000, "delivered": 990, "uniqueViews": 300, "uniqueClicks": 50}}}
	], "count": 1}`
	previous := `{"campaigns": [
		{"id": 9, "name": "Old", "status": "sent", "sentDate": "2025-06-03T08:00:00Z",
			"statistics": {"globalStats": {"sent": 500, "delivered": 490, "uniqueViews": 100, "uniqueClicks": 10}}}
	], "count": 1}`

	svc := newTestService(t, summaryHandler(t, current, previous))
	svc.now = func() time.Time { return now }

	summary, err := svc.GetAnalyticsSummary(context.Background(), SummaryQuery{CompareWithPrevious: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Changes == nil {
		t.Fatal("expected Changes")
	}
	if summary.Changes.TotalSent != 100 {
		t.Errorf("TotalSent change = %v, want 100", summary.Changes.TotalSent)
	}
	if summary.Changes.CampaignCount != 0 {
		t.Errorf("CampaignCount change = %v, want 0", summary.Changes.CampaignCount)
	}
	// Open rate moved from 20% to 30%.
	if summary.Changes.OpenRate != 50 {
		t.Errorf("OpenRate change = %v, want 50", summary.Changes.OpenRate)
	}
}

func TestGetAnalyticsSummaryCustomPeriodRequiresDates(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	_, err := svc.GetAnalyticsSummary(context.Background(), SummaryQuery{Period: "custom"})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestGetAnalyticsSummaryInvalidPeriod(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	_, err := svc.GetAnalyticsSummary(context.Background(), SummaryQuery{Period: "fortnight"})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
