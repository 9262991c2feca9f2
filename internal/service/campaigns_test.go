package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
)

// campaignPage renders a fake campaign list page of n entries starting
// at the given ID.
func campaignPage(startID, n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{"id": %d, "name": "Campaign %d", "status": "sent"}`, startID+i, startID+i))
	}
	return `{"campaigns": [` + strings.Join(items, ",") + `], "count": ` + strconv.Itoa(n) + `}`
}

func TestGetEmailCampaignsDefaults(t *testing.T) {
	var gotQuery map[string]string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"type":   r.URL.Query().Get("type"),
			"status": r.URL.Query().Get("status"),
			"limit":  r.URL.Query().Get("limit"),
			"offset": r.URL.Query().Get("offset"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"campaigns": [], "count": 0}`))
	}))

	list, err := svc.GetEmailCampaigns(context.Background(), CampaignsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["type"] != "classic" {
		t.Errorf("type = %q, want classic", gotQuery["type"])
	}
	if gotQuery["status"] != "" {
		t.Errorf("status should be omitted, got %q", gotQuery["status"])
	}
	if gotQuery["limit"] != "50" {
		t.Errorf("limit = %q, want default 50", gotQuery["limit"])
	}
	if list.Campaigns == nil {
		t.Error("Campaigns should be an empty slice, not nil")
	}
}

func TestFindCampaignOnLaterPage(t *testing.T) {
	var requests int
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		if offset == 0 {
			w.Write([]byte(campaignPage(1, 100)))
			return
		}
		// Target sits on the second page.
		w.Write([]byte(`{"campaigns": [{"id": 150, "name": "Target", "status": "sent",
			"statistics": {"globalStats": {"sent": 1000, "delivered": 950, "uniqueViews": 300, "uniqueClicks": 50}}}], "count": 1}`))
	}))

	res, err := svc.GetCampaignAnalytics(context.Background(), 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 2 {
		t.Errorf("requests = %d, want 2", requests)
	}
	if res.Campaign.ID != 150 || res.Campaign.Name != "Target" {
		t.Errorf("campaign = %+v", res.Campaign)
	}
	if res.Stats.Opens != 300 {
		t.Errorf("Opens = %d, want 300 (from uniqueViews)", res.Stats.Opens)
	}
}

func TestCampaignAnalyticsRatesWireFormat(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [{"id": 7, "name": "N", "status": "sent",
		"statistics": {"globalStats": {"sent": 1000, "delivered": 950, "uniqueViews": 300, "uniqueClicks": 50}}}], "count": 1}`))

	res, err := svc.GetCampaignAnalytics(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(res.Rates)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"openRate":"30.00"`) {
		t.Errorf("openRate wire format wrong: %s", data)
	}
	if !strings.Contains(string(data), `"clickRate":"5.00"`) {
		t.Errorf("clickRate wire format wrong: %s", data)
	}
}

func TestCampaignAnalyticsEchoesCampaignDetail(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [{"id": 7, "name": "N", "status": "sent",
		"tag": "welcome", "createdAt": "2025-06-01T09:00:00Z", "modifiedAt": "2025-06-02T09:00:00Z",
		"recipients": {"lists": [3, 4]},
		"statistics": {"globalStats": {"sent": 100, "delivered": 95, "uniqueViews": 20}}}], "count": 1}`))

	res, err := svc.GetCampaignAnalytics(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Tag != "welcome" {
		t.Errorf("Tag = %q", res.Tag)
	}
	if res.CreatedAt != "2025-06-01T09:00:00Z" || res.ModifiedAt != "2025-06-02T09:00:00Z" {
		t.Errorf("CreatedAt = %q, ModifiedAt = %q", res.CreatedAt, res.ModifiedAt)
	}
	if res.Recipients == nil || len(res.Recipients.Lists) != 2 || res.Recipients.Lists[0] != 3 {
		t.Errorf("Recipients = %+v", res.Recipients)
	}
}

func TestFindCampaignListExhausted(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, campaignPage(1, 3)))

	_, err := svc.GetCampaignAnalytics(context.Background(), 999)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nferr.Message != "Campaign 999 not found" {
		t.Errorf("Message = %q", nferr.Message)
	}
}

func TestFindCampaignBudgetExceeded(t *testing.T) {
	var requests int
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		w.Header().Set("Content-Type", "application/json")
		// Always a full page; the target never appears.
		w.Write([]byte(campaignPage(offset+1, 100)))
	}))

	_, err := svc.GetCampaignAnalytics(context.Background(), 99999)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nferr.Message != "Campaign 99999 not found within search limit of 1000 campaigns" {
		t.Errorf("Message = %q", nferr.Message)
	}
	if requests != 10 {
		t.Errorf("requests = %d, want 10 (scan ceiling)", requests)
	}
}

func TestCampaignCoreStatsSumsVersions(t *testing.T) {
	c := Campaign{Statistics: &campaignStatistics{
		CampaignStats: []StatsBlock{
			{Sent: 100, UniqueViews: 20, UniqueClicks: 5},
			{Sent: 50, UniqueViews: 10, UniqueClicks: 2},
		},
	}}
	st := c.CoreStats()
	if st.Sent != 150 || st.UniqueOpens != 30 || st.UniqueClicks != 7 {
		t.Errorf("CoreStats = %+v", st)
	}
}

func TestGetCampaignsPerformance(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [
		{"id": 1, "name": "A", "status": "sent", "sentDate": "2025-06-10T08:00:00Z",
			"statistics": {"globalStats": {"sent": 1000, "delivered": 990, "uniqueViews": 400, "uniqueClicks": 80}}},
		{"id": 2, "name": "B", "status": "sent", "sentDate": "2025-06-11T08:00:00Z",
			"statistics": {"globalStats": {"sent": 500, "delivered": 480, "uniqueViews": 100, "uniqueClicks": 5}}},
		{"id": 3, "name": "C", "status": "sent", "sentDate": "2025-06-12T08:00:00Z",
			"statistics": {"globalStats": {"sent": 0}}}
	], "count": 3}`))

	report, err := svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Campaigns) != 3 {
		t.Fatalf("rows = %d, want 3", len(report.Campaigns))
	}
	if report.Totals.Sent != 1500 || report.Totals.Opens != 500 {
		t.Errorf("totals = %+v", report.Totals)
	}
	// Campaign C never sent, so only A and B rank; A has the higher
	// click rate.
	if len(report.TopPerformers) != 2 {
		t.Fatalf("top performers = %d, want 2", len(report.TopPerformers))
	}
	if report.TopPerformers[0].Campaign.ID != 1 {
		t.Errorf("top performer = %d, want 1", report.TopPerformers[0].Campaign.ID)
	}
}

func TestGetCampaignsPerformanceStatusFilter(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   string
	}{
		{"default", "", "sent"},
		{"override", "draft", "draft"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStatus string
			svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotStatus = r.URL.Query().Get("status")
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"campaigns": [], "count": 0}`))
			}))

			if _, err := svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{Status: tt.status}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotStatus != tt.want {
				t.Errorf("status = %q, want %q", gotStatus, tt.want)
			}
		})
	}
}

func TestGetCampaignsPerformanceWithoutStats(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [
		{"id": 1, "name": "A", "status": "sent", "sentDate": "2025-06-10T08:00:00Z",
			"statistics": {"globalStats": {"sent": 1000, "delivered": 990, "uniqueViews": 400, "uniqueClicks": 80}}}
	], "count": 1}`))

	include := false
	report, err := svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{IncludeStats: &include})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Campaigns) != 1 || report.Campaigns[0].Stats != nil {
		t.Errorf("row stats = %+v, want omitted", report.Campaigns)
	}
	if len(report.TopPerformers) != 1 || report.TopPerformers[0].Stats != nil {
		t.Errorf("top performer stats = %+v, want omitted", report.TopPerformers)
	}
	// Aggregates and rates survive the omission.
	if report.Totals.Sent != 1000 {
		t.Errorf("totals = %+v", report.Totals)
	}
	if report.Campaigns[0].Rates.ClickRate != 8 {
		t.Errorf("rates = %+v", report.Campaigns[0].Rates)
	}
}

func TestGetCampaignsPerformanceDateFilter(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [
		{"id": 1, "name": "In", "status": "sent", "sentDate": "2025-06-10T23:30:00Z",
			"statistics": {"globalStats": {"sent": 100, "uniqueViews": 10}}},
		{"id": 2, "name": "Out", "status": "sent", "sentDate": "2025-06-12T00:00:01Z",
			"statistics": {"globalStats": {"sent": 100, "uniqueViews": 10}}},
		{"id": 3, "name": "Undated", "status": "sent",
			"statistics": {"globalStats": {"sent": 100, "uniqueViews": 10}}}
	], "count": 3}`))

	report, err := svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{
		StartDate: "2025-06-09",
		EndDate:   "2025-06-10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Campaigns) != 1 || report.Campaigns[0].Campaign.ID != 1 {
		t.Errorf("filter kept %+v", report.Campaigns)
	}
}

func TestGetCampaignsPerformanceBadDates(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	_, err := svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{StartDate: "June 9"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	_, err = svc.GetCampaignsPerformance(context.Background(), PerformanceQuery{
		StartDate: "2025-06-10",
		EndDate:   "2025-06-01",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for inverted range, got %v", err)
	}
}

func TestCreateEmailCampaignWithSender(t *testing.T) {
	var gotBody map[string]any
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 321}`))
	}))

	res, err := svc.CreateEmailCampaign(context.Background(), CreateCampaignRequest{
		Name:        "June Newsletter",
		Subject:     "News",
		Sender:      &EmailAddress{Email: "news@example.com", Name: "News"},
		HTMLContent: "<p>hello</p>",
		ListIDs:     []int{4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ID != 321 || res.Status != "draft" {
		t.Errorf("result = %+v", res)
	}
	if gotBody["type"] != "classic" {
		t.Errorf("type = %v", gotBody["type"])
	}
	if _, ok := gotBody["recipients"]; !ok {
		t.Error("recipients missing from payload")
	}
}

func TestCreateEmailCampaignResolvesSender(t *testing.T) {
	var listCalls []string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			status := r.URL.Query().Get("status")
			listCalls = append(listCalls, status)
			if status == "sent" {
				w.Write([]byte(`{"campaigns": [{"id": 1, "sender": {"email": "verified@example.com", "name": "Verified"}}], "count": 1}`))
			} else {
				w.Write([]byte(`{"campaigns": [], "count": 0}`))
			}
			return
		}
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		sender, _ := body["sender"].(map[string]any)
		if sender["email"] != "verified@example.com" {
			t.Errorf("sender = %v", sender)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 5}`))
	}))

	res, err := svc.CreateEmailCampaign(context.Background(), CreateCampaignRequest{
		Name:        "N",
		Subject:     "S",
		HTMLContent: "<p>x</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID != 5 {
		t.Errorf("ID = %d", res.ID)
	}
	if len(listCalls) != 1 || listCalls[0] != "sent" {
		t.Errorf("lookup calls = %v", listCalls)
	}
}

func TestCreateEmailCampaignNoSenderAvailable(t *testing.T) {
	svc := newTestService(t, jsonHandler(200, `{"campaigns": [], "count": 0}`))

	_, err := svc.CreateEmailCampaign(context.Background(), CreateCampaignRequest{
		Name:        "N",
		Subject:     "S",
		HTMLContent: "<p>x</p>",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Error(), "No verified sender found") {
		t.Errorf("message = %q", verr.Error())
	}
}

func TestUpdateEmailCampaign(t *testing.T) {
	var gotMethod, gotPath string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	res, err := svc.UpdateEmailCampaign(context.Background(), 42, UpdateCampaignRequest{Subject: "New subject"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/emailCampaigns/42" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if res.ID != 42 {
		t.Errorf("ID = %d", res.ID)
	}
}

func TestUpdateEmailCampaignNoFields(t *testing.T) {
	svc := newTestService(t, http.NotFoundHandler())

	_, err := svc.UpdateEmailCampaign(context.Background(), 42, UpdateCampaignRequest{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
