package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/houtini-ai/brevo-mcp/internal/brevo"
)

type sharedURLResponse struct {
	SharedURL string `json:"sharedUrl"`
}

// SharedTemplateURL is the public preview link for a campaign.
type SharedTemplateURL struct {
	CampaignID int    `json:"campaignId"`
	SharedURL  string `json:"sharedUrl"`
}

// GetSharedTemplateURL fetches the shareable preview URL of a campaign.
func (s *Service) GetSharedTemplateURL(ctx context.Context, campaignID int) (*SharedTemplateURL, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(campaignID) + "/sharedUrl"
	var resp sharedURLResponse
	if err := s.client.Get(ctx, endpoint, nil, &resp); err != nil {
		if brevo.IsStatus(err, 404) {
			return nil, &NotFoundError{Message: fmt.Sprintf("Campaign %d not found", campaignID)}
		}
		return nil, err
	}

	return &SharedTemplateURL{CampaignID: campaignID, SharedURL: resp.SharedURL}, nil
}
