package service

import (
	"context"
	"net/http"
	"testing"
)

func TestGetCampaignRecipients(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emailCampaigns/5/recipients" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("notOpened") != "true" {
			t.Errorf("notOpened = %q", r.URL.Query().Get("notOpened"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recipients": [{"email": "a@example.com"}, {"email": "b@example.com"}], "count": 2}`))
	}))

	res, err := svc.GetCampaignRecipients(context.Background(), RecipientsQuery{CampaignID: 5, NotOpened: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Fallback {
		t.Error("unexpected fallback")
	}
	if res.Count != 2 || len(res.Recipients) != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestGetCampaignRecipientsFallback(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/emailCampaigns/5/recipients" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code": "not_found", "message": "no recipient export"}`))
			return
		}
		// The campaign list used for the stats fallback.
		w.Write([]byte(`{"campaigns": [{"id": 5, "name": "N", "status": "sent",
			"recipients": {"lists": [11, 12]},
			"statistics": {"globalStats": {"sent": 100, "delivered": 95, "uniqueViews": 20}}}], "count": 1}`))
	}))

	res, err := svc.GetCampaignRecipients(context.Background(), RecipientsQuery{CampaignID: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Fallback {
		t.Fatal("expected fallback")
	}
	if res.Message != "Recipient details not available. Campaign statistics provided instead." {
		t.Errorf("Message = %q", res.Message)
	}
	if res.Stats == nil || res.Stats.Delivered != 95 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Count != 95 {
		t.Errorf("Count = %d, want delivered count", res.Count)
	}
	if len(res.RecipientLists) != 2 || res.RecipientLists[0] != 11 || res.RecipientLists[1] != 12 {
		t.Errorf("RecipientLists = %v, want [11 12]", res.RecipientLists)
	}
}

func TestGetCampaignRecipientsUnknownCampaign(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/emailCampaigns/5/recipients" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"code": "not_found", "message": "nope"}`))
			return
		}
		w.Write([]byte(`{"campaigns": [], "count": 0}`))
	}))

	_, err := svc.GetCampaignRecipients(context.Background(), RecipientsQuery{CampaignID: 5})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
