package service

import (
	"context"
	"net/url"
	"strconv"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
)

// RecipientsQuery are the arguments for GetCampaignRecipients. The
// NotOpened and NotClicked flags narrow the listing to recipients who
// did not perform that action.
type RecipientsQuery struct {
	CampaignID int  `json:"campaignId"`
	NotOpened  bool `json:"notOpened"`
	NotClicked bool `json:"notClicked"`
}

type recipientEntry struct {
	Email string `json:"email"`
}

type recipientListResponse struct {
	Recipients []recipientEntry `json:"recipients"`
	Count      int              `json:"count"`
}

// CampaignRecipientsResult lists campaign recipients. When the
// recipient detail endpoint is unavailable for the account plan the
// result degrades to campaign statistics with Fallback set.
type CampaignRecipientsResult struct {
	CampaignID     int          `json:"campaignId"`
	Recipients     []string     `json:"recipients,omitempty"`
	Count          int          `json:"count"`
	Fallback       bool         `json:"fallback,omitempty"`
	Message        string       `json:"message,omitempty"`
	Stats          *CoreMetrics `json:"stats,omitempty"`
	RecipientLists []int        `json:"recipientLists,omitempty"`
}

// GetCampaignRecipients lists who a campaign went to. Recipient level
// data is plan-gated on the API, so a missing endpoint degrades to the
// campaign's aggregate statistics instead of failing.
func (s *Service) GetCampaignRecipients(ctx context.Context, q RecipientsQuery) (*CampaignRecipientsResult, error) {
	if q.CampaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}

	params := url.Values{}
	if q.NotOpened {
		params.Set("notOpened", "true")
	}
	if q.NotClicked {
		params.Set("notClicked", "true")
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(q.CampaignID) + "/recipients"
	var resp recipientListResponse
	err := s.client.Get(ctx, endpoint, params, &resp)
	if err == nil {
		emails := make([]string, 0, len(resp.Recipients))
		for _, r := range resp.Recipients {
			emails = append(emails, r.Email)
		}
		count := resp.Count
		if count == 0 {
			count = len(emails)
		}
		return &CampaignRecipientsResult{
			CampaignID: q.CampaignID,
			Recipients: emails,
			Count:      count,
		}, nil
	}
	if !brevo.IsStatus(err, 404) && !brevo.IsStatus(err, 403) {
		return nil, err
	}

	campaign, outcome, err := s.findCampaignByID(ctx, q.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, s.campaignNotFound(q.CampaignID, outcome)
	}

	stats := coreMetrics(campaign.CoreStats())
	s.logger.Debug("recipient detail unavailable, returning statistics", "id", q.CampaignID)

	var lists []int
	if campaign.Recipients != nil {
		lists = campaign.Recipients.Lists
	}

	return &CampaignRecipientsResult{
		CampaignID:     q.CampaignID,
		Count:          stats.Delivered,
		Fallback:       true,
		Message:        "Recipient details not available. Campaign statistics provided instead.",
		Stats:          &stats,
		RecipientLists: lists,
	}, nil
}
