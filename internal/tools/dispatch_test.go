package tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
	"github.com/houtini-ai/brevo-mcp/internal/config"
	"github.com/houtini-ai/brevo-mcp/internal/metrics"
	"github.com/houtini-ai/brevo-mcp/internal/service"
)

func newTestDispatcher(t *testing.T, handler http.Handler) *Dispatcher {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := brevo.New("test-key", brevo.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatal(err)
	}

	search := config.SearchConfig{PageSize: 100, MaxScan: 1000, DefaultLimit: 50, MaxLimit: 1000}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(client, search, logger)

	return NewDispatcher(svc, metrics.New(), logger)
}

func TestDispatchUnknownTool(t *testing.T) {
	d := newTestDispatcher(t, http.NotFoundHandler())

	_, err := d.Dispatch(context.Background(), "does_not_exist", nil)
	if err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatchAccountInfo(t *testing.T) {
	d := newTestDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email": "owner@example.com", "plan": [{"type": "free", "credits": 300}]}`))
	}))

	out, err := d.Dispatch(context.Background(), "get_account_info", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["email"] != "owner@example.com" {
		t.Errorf("email = %v", decoded["email"])
	}
	if decoded["plan"] != "free" {
		t.Errorf("plan = %v", decoded["plan"])
	}
}

func TestDispatchInvalidInput(t *testing.T) {
	d := newTestDispatcher(t, http.NotFoundHandler())

	_, err := d.Dispatch(context.Background(), "get_contacts", json.RawMessage(`{"limit": "ten"}`))
	if err == nil || !strings.Contains(err.Error(), "invalid tool input") {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatchValidationErrorSurface(t *testing.T) {
	d := newTestDispatcher(t, http.NotFoundHandler())

	_, err := d.Dispatch(context.Background(), "send_email", json.RawMessage(`{"to": []}`))
	if err == nil || !strings.Contains(err.Error(), "at least one recipient is required") {
		t.Fatalf("err = %v", err)
	}
}

func TestDispatchAPIErrorMessage(t *testing.T) {
	d := newTestDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": "unauthorized", "message": "bad key"}`))
	}))

	_, err := d.Dispatch(context.Background(), "get_account_info", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Authentication failed" {
		t.Errorf("err = %q, want stripped message", err.Error())
	}
}

func TestDispatchCampaignTool(t *testing.T) {
	d := newTestDispatcher(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emailCampaigns/4/sendTest" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	out, err := d.Dispatch(context.Background(), "send_test_email",
		json.RawMessage(`{"campaignId": 4, "emailTo": ["qa@example.com"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, `"sendTest"`) {
		t.Errorf("output = %s", out)
	}
}
