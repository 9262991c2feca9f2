package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
)

// DeliveryResult confirms a delivery action on a campaign.
type DeliveryResult struct {
	CampaignID int    `json:"campaignId"`
	Action     string `json:"action"`
	Message    string `json:"message"`
}

// SendCampaignNow triggers immediate delivery of a draft campaign.
func (s *Service) SendCampaignNow(ctx context.Context, campaignID int) (*DeliveryResult, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(campaignID) + "/sendNow"
	if err := s.client.Post(ctx, endpoint, nil, nil); err != nil {
		if brevo.IsStatus(err, 404) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Campaign %d not found", campaignID)}
		}
		return nil, err
	}

	s.logger.Info("campaign send triggered", "id", campaignID)

	return &DeliveryResult{
		CampaignID: campaignID,
		Action:     "sendNow",
		Message:    fmt.Sprintf("Campaign %d is being sent", campaignID),
	}, nil
}

// SendTestEmail sends a campaign preview. With no recipients the test
// goes to the account's configured test list.
func (s *Service) SendTestEmail(ctx context.Context, campaignID int, emailTo []string) (*DeliveryResult, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}
	for _, addr := range emailTo {
		if addr == "" {
			return nil, validationErr("emailTo", "addresses must not be empty")
		}
	}

	var payload any
	if len(emailTo) > 0 {
		payload = map[string]any{"emailTo": emailTo}
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(campaignID) + "/sendTest"
	if err := s.client.Post(ctx, endpoint, payload, nil); err != nil {
		if brevo.IsStatus(err, 404) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Campaign %d not found", campaignID)}
		}
		return nil, err
	}

	msg := fmt.Sprintf("Test email for campaign %d sent", campaignID)
	if len(emailTo) > 0 {
		msg = fmt.Sprintf("Test email for campaign %d sent to %d recipient(s)", campaignID, len(emailTo))
	}

	return &DeliveryResult{
		CampaignID: campaignID,
		Action:     "sendTest",
		Message:    msg,
	}, nil
}

// statusDescriptions maps accepted campaign status transitions to
// human-readable confirmations.
var statusDescriptions = map[string]string{
	"suspended": "Campaign suspended",
	"archive":   "Campaign archived",
	"darchive":  "Campaign unarchived",
	"sent":      "Campaign marked as sent",
	"queued":    "Campaign queued for delivery",
	"replicate": "Campaign replicated",
}

// UpdateCampaignStatus applies one of the accepted status transitions.
func (s *Service) UpdateCampaignStatus(ctx context.Context, campaignID int, status string) (*DeliveryResult, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}
	desc, ok := statusDescriptions[status]
	if !ok {
		return nil, validationErr("status", "must be one of suspended, archive, darchive, sent, queued, replicate")
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(campaignID) + "/status"
	if err := s.client.Put(ctx, endpoint, map[string]any{"status": status}, nil); err != nil {
		if brevo.IsStatus(err, 404) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Campaign %d not found", campaignID)}
		}
		return nil, err
	}

	s.logger.Info("campaign status updated", "id", campaignID, "status", status)

	return &DeliveryResult{
		CampaignID: campaignID,
		Action:     "updateStatus",
		Message:    fmt.Sprintf("%s (campaign %d)", desc, campaignID),
	}, nil
}
