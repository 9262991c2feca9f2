package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/houtini-ai/brevo-mcp/internal/analytics"
	"github.com/houtini-ai/brevo-mcp/internal/brevo"
)

// Contact is the wire shape of a Brevo contact. Attributes are
// account-defined and passed through untouched.
type Contact struct {
	ID               int            `json:"id"`
	Email            string         `json:"email"`
	EmailBlacklisted bool           `json:"emailBlacklisted"`
	SMSBlacklisted   bool           `json:"smsBlacklisted"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	ModifiedAt       string         `json:"modifiedAt,omitempty"`
	ListIDs          []int          `json:"listIds,omitempty"`
	Attributes       map[string]any `json:"attributes,omitempty"`
}

type contactListResponse struct {
	Contacts []Contact `json:"contacts"`
	Count    int       `json:"count"`
}

// ContactsQuery are the arguments for GetContacts.
type ContactsQuery struct {
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
	Email  string `json:"email"`
}

// ContactList is a page of contacts.
type ContactList struct {
	Contacts []Contact `json:"contacts"`
	Count    int       `json:"count"`
}

// GetContacts lists contacts. When an email filter is given the single
// matching contact is fetched directly and wrapped as a one-element
// list with count 1.
func (s *Service) GetContacts(ctx context.Context, q ContactsQuery) (*ContactList, error) {
	if q.Offset < 0 {
		return nil, validationErr("offset", "must not be negative")
	}

	if q.Email != "" {
		var contact Contact
		endpoint := "/contacts/" + url.PathEscape(q.Email)
		if err := s.client.Get(ctx, endpoint, nil, &contact); err != nil {
			return nil, err
		}
		return &ContactList{Contacts: []Contact{contact}, Count: 1}, nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(s.clampLimit(q.Limit)))
	params.Set("offset", strconv.Itoa(q.Offset))

	var resp contactListResponse
	if err := s.client.Get(ctx, "/contacts", params, &resp); err != nil {
		return nil, err
	}
	if resp.Contacts == nil {
		resp.Contacts = []Contact{}
	}
	return &ContactList{Contacts: resp.Contacts, Count: resp.Count}, nil
}

// ContactAnalyticsQuery are the arguments for GetContactAnalytics.
// Exactly one of ContactID or Email must identify the contact.
type ContactAnalyticsQuery struct {
	ContactID     int    `json:"contactId"`
	Email         string `json:"email"`
	CampaignLimit int    `json:"campaignLimit"`
}

// ContactEngagement summarizes a contact's interaction history.
type ContactEngagement struct {
	Level     analytics.EngagementLevel `json:"level"`
	Sent      int                       `json:"sent"`
	Opens     int                       `json:"opens"`
	Clicks    int                       `json:"clicks"`
	OpenRate  analytics.Percentage      `json:"openRate"`
	ClickRate analytics.Percentage      `json:"clickRate"`
}

// ContactAnalytics is the engagement report for a single contact.
// Warning is set when the campaign-history endpoint was unavailable and
// the report degrades to contact details only.
type ContactAnalytics struct {
	Contact    Contact           `json:"contact"`
	Engagement ContactEngagement `json:"engagement"`
	Warning    string            `json:"warning,omitempty"`
}

// contactHistoryResponse is the wire shape of the per-contact campaign
// history endpoint.
type contactHistoryResponse struct {
	Campaigns []contactHistoryEntry `json:"campaigns"`
}

type contactHistoryEntry struct {
	CampaignID int    `json:"campaignId"`
	EventType  string `json:"eventType"`
}

// GetContactAnalytics fetches a contact and tallies its campaign event
// history into an engagement classification. A missing history endpoint
// is tolerated: the call still succeeds with a warning annotation.
func (s *Service) GetContactAnalytics(ctx context.Context, q ContactAnalyticsQuery) (*ContactAnalytics, error) {
	if q.ContactID <= 0 && q.Email == "" {
		return nil, validationErr("contactId", "either contactId or email is required")
	}

	ident := q.Email
	if ident == "" {
		ident = strconv.Itoa(q.ContactID)
	}

	var contact Contact
	if err := s.client.Get(ctx, "/contacts/"+url.PathEscape(ident), nil, &contact); err != nil {
		if brevo.IsStatus(err, 404) {
			return nil, &NotFoundError{Message: "Contact not found"}
		}
		return nil, err
	}

	result := &ContactAnalytics{
		Contact:    contact,
		Engagement: ContactEngagement{Level: analytics.NoActivity},
	}

	var history contactHistoryResponse
	err := s.client.Get(ctx, "/contacts/"+url.PathEscape(ident)+"/campaignStats", nil, &history)
	if err != nil {
		if brevo.IsStatus(err, 404) {
			result.Warning = "Campaign history is not available for this contact; engagement data omitted."
			return result, nil
		}
		return nil, err
	}

	limit := q.CampaignLimit
	if limit <= 0 || limit > len(history.Campaigns) {
		limit = len(history.Campaigns)
	}

	var sent, opens, clicks int
	for _, entry := range history.Campaigns[:limit] {
		switch strings.ToLower(entry.EventType) {
		case "sent", "delivered":
			sent++
		case "opened", "open":
			opens++
		case "clicked", "click":
			clicks++
		}
	}

	result.Engagement = ContactEngagement{
		Level:  analytics.DetermineEngagement(opens, clicks, sent),
		Sent:   sent,
		Opens:  opens,
		Clicks: clicks,
	}
	if sent > 0 {
		rates := analytics.CalculateRates(analytics.Stats{Sent: sent, UniqueOpens: opens, UniqueClicks: clicks})
		result.Engagement.OpenRate = rates.OpenRate
		result.Engagement.ClickRate = rates.ClickRate
	}

	return result, nil
}
