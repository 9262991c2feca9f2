package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
	"github.com/houtini-ai/brevo-mcp/internal/metrics"
	"github.com/houtini-ai/brevo-mcp/internal/service"
)

// Dispatcher routes tool invocations to the service layer and renders
// results as indented JSON for the protocol transport.
type Dispatcher struct {
	svc     *service.Service
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher. Metrics may be nil.
func NewDispatcher(svc *service.Service, m *metrics.Metrics, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		svc:     svc,
		metrics: m,
		logger:  logger.With("component", "dispatcher"),
	}
}

// Dispatch executes the named tool with the given JSON input.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, input json.RawMessage) (string, error) {
	invocationID := uuid.NewString()
	start := time.Now()

	d.logger.Debug("tool invoked", "tool", name, "invocation", invocationID)

	out, err := d.execute(ctx, name, input)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
		d.logger.Error("tool failed",
			"tool", name,
			"invocation", invocationID,
			"duration", duration,
			"error", err,
		)
	} else {
		d.logger.Info("tool completed",
			"tool", name,
			"invocation", invocationID,
			"duration", duration,
		)
	}
	d.metrics.ObserveTool(name, status, duration)

	if err != nil {
		return "", err
	}
	return out, nil
}

func (d *Dispatcher) execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	switch name {
	case "get_account_info":
		return render(d.svc.GetAccountInfo(ctx))

	case "get_contacts":
		var q service.ContactsQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetContacts(ctx, q))

	case "send_email":
		var req service.SendEmailRequest
		if err := decode(input, &req); err != nil {
			return "", err
		}
		return render(d.svc.SendEmail(ctx, req))

	case "get_email_campaigns":
		var q service.CampaignsQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetEmailCampaigns(ctx, q))

	case "get_campaign_analytics":
		var args struct {
			CampaignID int `json:"campaignId"`
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.GetCampaignAnalytics(ctx, args.CampaignID))

	case "get_campaigns_performance":
		var q service.PerformanceQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetCampaignsPerformance(ctx, q))

	case "get_contact_analytics":
		var q service.ContactAnalyticsQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetContactAnalytics(ctx, q))

	case "get_analytics_summary":
		var q service.SummaryQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetAnalyticsSummary(ctx, q))

	case "get_campaign_recipients":
		var q service.RecipientsQuery
		if err := decode(input, &q); err != nil {
			return "", err
		}
		return render(d.svc.GetCampaignRecipients(ctx, q))

	case "create_email_campaign":
		var req service.CreateCampaignRequest
		if err := decode(input, &req); err != nil {
			return "", err
		}
		return render(d.svc.CreateEmailCampaign(ctx, req))

	case "update_email_campaign":
		var args struct {
			CampaignID int `json:"campaignId"`
			service.UpdateCampaignRequest
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.UpdateEmailCampaign(ctx, args.CampaignID, args.UpdateCampaignRequest))

	case "send_campaign_now":
		var args struct {
			CampaignID int `json:"campaignId"`
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.SendCampaignNow(ctx, args.CampaignID))

	case "send_test_email":
		var args struct {
			CampaignID int      `json:"campaignId"`
			EmailTo    []string `json:"emailTo"`
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.SendTestEmail(ctx, args.CampaignID, args.EmailTo))

	case "update_campaign_status":
		var args struct {
			CampaignID int    `json:"campaignId"`
			Status     string `json:"status"`
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.UpdateCampaignStatus(ctx, args.CampaignID, args.Status))

	case "get_shared_template_url":
		var args struct {
			CampaignID int `json:"campaignId"`
		}
		if err := decode(input, &args); err != nil {
			return "", err
		}
		return render(d.svc.GetSharedTemplateURL(ctx, args.CampaignID))

	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

func decode(input json.RawMessage, out any) error {
	if len(input) == 0 {
		return nil
	}
	if err := json.Unmarshal(input, out); err != nil {
		return fmt.Errorf("invalid tool input: %w", err)
	}
	return nil
}

func render[T any](result T, err error) (string, error) {
	if err != nil {
		return "", describeError(err)
	}
	data, merr := json.MarshalIndent(result, "", "  ")
	if merr != nil {
		return "", fmt.Errorf("encode result: %w", merr)
	}
	return string(data), nil
}

// describeError keeps domain error messages intact for clients while
// stripping internal wrapping.
func describeError(err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	var nferr *service.NotFoundError
	if errors.As(err, &nferr) {
		return nferr
	}
	if apiErr, ok := brevo.AsAPIError(err); ok {
		return errors.New(apiErr.Message)
	}
	return err
}
