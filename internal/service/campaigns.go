package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/houtini-ai/brevo-mcp/internal/analytics"
)

// Campaign is the wire shape of a Brevo email campaign.
type Campaign struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Subject     string              `json:"subject"`
	Type        string              `json:"type"`
	Status      string              `json:"status"`
	SentDate    string              `json:"sentDate,omitempty"`
	ScheduledAt string              `json:"scheduledAt,omitempty"`
	CreatedAt   string              `json:"createdAt,omitempty"`
	ModifiedAt  string              `json:"modifiedAt,omitempty"`
	Sender      *EmailAddress       `json:"sender,omitempty"`
	Tag         string              `json:"tag,omitempty"`
	Recipients  *CampaignRecipients `json:"recipients,omitempty"`
	Statistics  *campaignStatistics `json:"statistics,omitempty"`
}

// CampaignRecipients identifies the contact lists a campaign targets.
type CampaignRecipients struct {
	Lists          []int `json:"lists,omitempty"`
	ExclusionLists []int `json:"exclusionLists,omitempty"`
}

type campaignStatistics struct {
	GlobalStats   *StatsBlock  `json:"globalStats,omitempty"`
	CampaignStats []StatsBlock `json:"campaignStats,omitempty"`
}

// StatsBlock carries the raw counters Brevo reports per campaign. Open
// counts arrive as "views" on this API.
type StatsBlock struct {
	Sent            int `json:"sent"`
	Delivered       int `json:"delivered"`
	UniqueViews     int `json:"uniqueViews"`
	Viewed          int `json:"viewed"`
	UniqueClicks    int `json:"uniqueClicks"`
	Clickers        int `json:"clickers"`
	HardBounces     int `json:"hardBounces"`
	SoftBounces     int `json:"softBounces"`
	Unsubscriptions int `json:"unsubscriptions"`
	Complaints      int `json:"complaints"`
}

func (b StatsBlock) toStats() analytics.Stats {
	return analytics.Stats{
		Sent:            b.Sent,
		Delivered:       b.Delivered,
		UniqueOpens:     b.UniqueViews,
		UniqueClicks:    b.UniqueClicks,
		HardBounces:     b.HardBounces,
		SoftBounces:     b.SoftBounces,
		Unsubscriptions: b.Unsubscriptions,
		Complaints:      b.Complaints,
	}
}

// CoreStats flattens the statistics block into plain counters. Global
// stats are preferred; per-version stats are summed when that is all
// the API returned.
func (c *Campaign) CoreStats() analytics.Stats {
	if c.Statistics == nil {
		return analytics.Stats{}
	}
	if c.Statistics.GlobalStats != nil {
		return c.Statistics.GlobalStats.toStats()
	}
	var total analytics.Stats
	for _, block := range c.Statistics.CampaignStats {
		total.Add(block.toStats())
	}
	return total
}

type campaignListResponse struct {
	Campaigns []Campaign `json:"campaigns"`
	Count     int        `json:"count"`
}

// CampaignsQuery are the arguments for GetEmailCampaigns.
type CampaignsQuery struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CampaignList is a page of campaigns.
type CampaignList struct {
	Campaigns []Campaign `json:"campaigns"`
	Count     int        `json:"count"`
}

// GetEmailCampaigns lists campaigns, optionally filtered by type and
// status.
func (s *Service) GetEmailCampaigns(ctx context.Context, q CampaignsQuery) (*CampaignList, error) {
	if q.Offset < 0 {
		return nil, validationErr("offset", "must not be negative")
	}

	params := url.Values{}
	params.Set("type", defaultString(q.Type, "classic"))
	params.Set("limit", strconv.Itoa(s.clampLimit(q.Limit)))
	params.Set("offset", strconv.Itoa(q.Offset))
	if q.Status != "" {
		params.Set("status", q.Status)
	}

	var resp campaignListResponse
	if err := s.client.Get(ctx, "/emailCampaigns", params, &resp); err != nil {
		return nil, err
	}
	if resp.Campaigns == nil {
		resp.Campaigns = []Campaign{}
	}
	return &CampaignList{Campaigns: resp.Campaigns, Count: resp.Count}, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// ScanOutcome reports how a paged campaign lookup ended.
type ScanOutcome int

const (
	// ScanFound means the campaign turned up within the scan budget.
	ScanFound ScanOutcome = iota
	// ScanListEnded means the campaign list was exhausted without a match.
	ScanListEnded
	// ScanBudgetExceeded means the scan ceiling was reached before the
	// list ended, so the campaign may exist beyond it.
	ScanBudgetExceeded
)

// findCampaignByID pages through /emailCampaigns looking for one
// campaign. The list endpoint is the only one that returns statistics,
// so the detail endpoint is not an alternative here.
func (s *Service) findCampaignByID(ctx context.Context, id int) (*Campaign, ScanOutcome, error) {
	params := url.Values{}
	params.Set("type", "classic")
	params.Set("limit", strconv.Itoa(s.search.PageSize))

	for offset := 0; offset < s.search.MaxScan; offset += s.search.PageSize {
		params.Set("offset", strconv.Itoa(offset))

		var resp campaignListResponse
		if err := s.client.Get(ctx, "/emailCampaigns", params, &resp); err != nil {
			return nil, ScanListEnded, err
		}
		for i := range resp.Campaigns {
			if resp.Campaigns[i].ID == id {
				return &resp.Campaigns[i], ScanFound, nil
			}
		}
		if len(resp.Campaigns) < s.search.PageSize {
			return nil, ScanListEnded, nil
		}
	}
	return nil, ScanBudgetExceeded, nil
}

func (s *Service) campaignNotFound(id int, outcome ScanOutcome) error {
	if outcome == ScanBudgetExceeded {
		return &NotFoundError{Message: fmt.Sprintf("Campaign %d not found within search limit of %d campaigns", id, s.search.MaxScan)}
	}
	return &NotFoundError{Message: fmt.Sprintf("Campaign %d not found", id)}
}

// CampaignSummary is the identifying slice of a campaign included in
// analytics results.
type CampaignSummary struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Status   string `json:"status"`
	SentDate string `json:"sentDate,omitempty"`
}

func summarize(c *Campaign) CampaignSummary {
	return CampaignSummary{
		ID:       c.ID,
		Name:     c.Name,
		Subject:  c.Subject,
		Status:   c.Status,
		SentDate: c.SentDate,
	}
}

// CoreMetrics are the flattened counters reported to callers.
type CoreMetrics struct {
	Sent            int `json:"sent"`
	Delivered       int `json:"delivered"`
	Opens           int `json:"opens"`
	Clicks          int `json:"clicks"`
	HardBounces     int `json:"hardBounces"`
	SoftBounces     int `json:"softBounces"`
	Unsubscriptions int `json:"unsubscriptions"`
	Complaints      int `json:"complaints"`
}

func coreMetrics(st analytics.Stats) CoreMetrics {
	return CoreMetrics{
		Sent:            st.Sent,
		Delivered:       st.Delivered,
		Opens:           st.UniqueOpens,
		Clicks:          st.UniqueClicks,
		HardBounces:     st.HardBounces,
		SoftBounces:     st.SoftBounces,
		Unsubscriptions: st.Unsubscriptions,
		Complaints:      st.Complaints,
	}
}

// CampaignAnalytics is the per-campaign metrics report.
type CampaignAnalytics struct {
	Campaign   CampaignSummary     `json:"campaign"`
	Stats      CoreMetrics         `json:"stats"`
	Rates      analytics.RateSet   `json:"rates"`
	Recipients *CampaignRecipients `json:"recipients,omitempty"`
	Tag        string              `json:"tag,omitempty"`
	CreatedAt  string              `json:"createdAt,omitempty"`
	ModifiedAt string              `json:"modifiedAt,omitempty"`
	Timestamp  string              `json:"timestamp"`
}

// GetCampaignAnalytics returns counters and derived rates for one
// campaign.
func (s *Service) GetCampaignAnalytics(ctx context.Context, campaignID int) (*CampaignAnalytics, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}

	campaign, outcome, err := s.findCampaignByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, s.campaignNotFound(campaignID, outcome)
	}

	stats := campaign.CoreStats()
	return &CampaignAnalytics{
		Campaign:   summarize(campaign),
		Stats:      coreMetrics(stats),
		Rates:      analytics.CalculateRates(stats),
		Recipients: campaign.Recipients,
		Tag:        campaign.Tag,
		CreatedAt:  campaign.CreatedAt,
		ModifiedAt: campaign.ModifiedAt,
		Timestamp:  s.timestamp(),
	}, nil
}

// PerformanceQuery are the arguments for GetCampaignsPerformance. Date
// bounds apply to the campaign sent date and are inclusive. A nil
// IncludeStats means the per-campaign counters are included.
type PerformanceQuery struct {
	Limit        int    `json:"limit"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Status       string `json:"status"`
	IncludeStats *bool  `json:"includeStats"`
}

// CampaignPerformance is one row of the performance report.
type CampaignPerformance struct {
	Campaign CampaignSummary   `json:"campaign"`
	Stats    *CoreMetrics      `json:"stats,omitempty"`
	Rates    analytics.RateSet `json:"rates"`
}

// PerformanceReport aggregates sent campaigns over a window.
type PerformanceReport struct {
	Campaigns     []CampaignPerformance `json:"campaigns"`
	Totals        CoreMetrics           `json:"totals"`
	AggregateRate analytics.RateSet     `json:"aggregateRates"`
	TopPerformers []CampaignPerformance `json:"topPerformers"`
	Timestamp     string                `json:"timestamp"`
}

// GetCampaignsPerformance collects sent campaigns, computes per-row and
// aggregate rates and ranks the top performers by click rate.
func (s *Service) GetCampaignsPerformance(ctx context.Context, q PerformanceQuery) (*PerformanceReport, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.search.DefaultLimit
	}
	if limit > s.search.MaxLimit {
		limit = s.search.MaxLimit
	}

	var window *dateWindow
	if q.StartDate != "" || q.EndDate != "" {
		w, err := parseDateWindow(q.StartDate, q.EndDate)
		if err != nil {
			return nil, err
		}
		window = w
	}

	batch := limit
	if batch > s.search.PageSize {
		batch = s.search.PageSize
	}

	params := url.Values{}
	params.Set("type", "classic")
	params.Set("status", defaultString(q.Status, "sent"))
	params.Set("limit", strconv.Itoa(batch))

	rows := make([]CampaignPerformance, 0, limit)
	var totals analytics.Stats

	for offset := 0; len(rows) < limit && offset < s.search.MaxScan; offset += batch {
		params.Set("offset", strconv.Itoa(offset))

		var resp campaignListResponse
		if err := s.client.Get(ctx, "/emailCampaigns", params, &resp); err != nil {
			return nil, err
		}
		for i := range resp.Campaigns {
			if len(rows) >= limit {
				break
			}
			c := &resp.Campaigns[i]
			if window != nil && !window.contains(c.SentDate) {
				continue
			}
			stats := c.CoreStats()
			totals.Add(stats)
			metrics := coreMetrics(stats)
			rows = append(rows, CampaignPerformance{
				Campaign: summarize(c),
				Stats:    &metrics,
				Rates:    analytics.CalculateRates(stats),
			})
		}
		if len(resp.Campaigns) < batch {
			break
		}
	}

	top := make([]CampaignPerformance, 0, len(rows))
	for _, row := range rows {
		if row.Stats.Sent > 0 {
			top = append(top, row)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Rates.ClickRate > top[j].Rates.ClickRate
	})
	if len(top) > 5 {
		top = top[:5]
	}

	if q.IncludeStats != nil && !*q.IncludeStats {
		for i := range rows {
			rows[i].Stats = nil
		}
		for i := range top {
			top[i].Stats = nil
		}
	}

	return &PerformanceReport{
		Campaigns:     rows,
		Totals:        coreMetrics(totals),
		AggregateRate: analytics.CalculateRates(totals),
		TopPerformers: top,
		Timestamp:     s.timestamp(),
	}, nil
}

// dateWindow is an inclusive sent-date filter. The end bound extends
// through the whole final day.
type dateWindow struct {
	start time.Time
	end   time.Time
}

func parseDateWindow(startDate, endDate string) (*dateWindow, error) {
	const layout = "2006-01-02"
	w := &dateWindow{
		start: time.Time{},
		end:   time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	if startDate != "" {
		t, err := time.Parse(layout, startDate)
		if err != nil {
			return nil, validationErr("startDate", "must be formatted as YYYY-MM-DD")
		}
		w.start = t
	}
	if endDate != "" {
		t, err := time.Parse(layout, endDate)
		if err != nil {
			return nil, validationErr("endDate", "must be formatted as YYYY-MM-DD")
		}
		w.end = t.Add(24*time.Hour - time.Second)
	}
	if w.end.Before(w.start) {
		return nil, validationErr("endDate", "must not be before startDate")
	}
	return w, nil
}

func (w *dateWindow) contains(sentDate string) bool {
	if sentDate == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, sentDate)
	if err != nil {
		t, err = time.Parse("2006-01-02", sentDate)
		if err != nil {
			return false
		}
	}
	return !t.Before(w.start) && !t.After(w.end)
}

// CreateCampaignRequest are the arguments for CreateEmailCampaign.
// Sender is optional; when omitted it is resolved from an existing
// campaign.
type CreateCampaignRequest struct {
	Name        string        `json:"name"`
	Subject     string        `json:"subject"`
	Sender      *EmailAddress `json:"sender,omitempty"`
	HTMLContent string        `json:"htmlContent,omitempty"`
	TemplateID  int           `json:"templateId,omitempty"`
	ListIDs     []int         `json:"listIds,omitempty"`
	ScheduledAt string        `json:"scheduledAt,omitempty"`
	Tag         string        `json:"tag,omitempty"`
}

type createCampaignResponse struct {
	ID int `json:"id"`
}

// CreateCampaignResult confirms a created campaign.
type CreateCampaignResult struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// resolveSender finds a usable sender identity from recent campaigns,
// preferring sent ones since those senders are necessarily verified.
func (s *Service) resolveSender(ctx context.Context) (*EmailAddress, error) {
	for _, status := range []string{"sent", "draft"} {
		params := url.Values{}
		params.Set("type", "classic")
		params.Set("status", status)
		params.Set("limit", "1")

		var resp campaignListResponse
		if err := s.client.Get(ctx, "/emailCampaigns", params, &resp); err != nil {
			return nil, err
		}
		if len(resp.Campaigns) > 0 && resp.Campaigns[0].Sender != nil && resp.Campaigns[0].Sender.Email != "" {
			return resp.Campaigns[0].Sender, nil
		}
	}
	return nil, validationErr("sender", "No verified sender found. Please provide sender information or create at least one campaign in Brevo dashboard first.")
}

// CreateEmailCampaign creates a classic campaign as a draft.
func (s *Service) CreateEmailCampaign(ctx context.Context, req CreateCampaignRequest) (*CreateCampaignResult, error) {
	if req.Name == "" {
		return nil, validationErr("name", "is required")
	}
	if req.Subject == "" {
		return nil, validationErr("subject", "is required")
	}
	if req.HTMLContent == "" && req.TemplateID <= 0 {
		return nil, validationErr("content", "htmlContent or templateId is required")
	}

	sender := req.Sender
	if sender == nil || sender.Email == "" {
		resolved, err := s.resolveSender(ctx)
		if err != nil {
			return nil, err
		}
		sender = resolved
		s.logger.Debug("sender resolved from existing campaign", "email", sender.Email)
	}

	payload := map[string]any{
		"name":    req.Name,
		"subject": req.Subject,
		"sender":  sender,
		"type":    "classic",
	}
	if req.HTMLContent != "" {
		payload["htmlContent"] = req.HTMLContent
	}
	if req.TemplateID > 0 {
		payload["templateId"] = req.TemplateID
	}
	if len(req.ListIDs) > 0 {
		payload["recipients"] = map[string]any{"listIds": req.ListIDs}
	}
	if req.ScheduledAt != "" {
		payload["scheduledAt"] = req.ScheduledAt
	}
	if req.Tag != "" {
		payload["tag"] = req.Tag
	}

	var resp createCampaignResponse
	if err := s.client.Post(ctx, "/emailCampaigns", payload, &resp); err != nil {
		return nil, err
	}

	s.logger.Info("campaign created", "id", resp.ID, "name", req.Name)

	return &CreateCampaignResult{
		ID:      resp.ID,
		Name:    req.Name,
		Status:  "draft",
		Message: fmt.Sprintf("Campaign %q created successfully", req.Name),
	}, nil
}

// UpdateCampaignRequest carries the updatable campaign fields. Zero
// values are omitted from the request.
type UpdateCampaignRequest struct {
	Name        string        `json:"name,omitempty"`
	Subject     string        `json:"subject,omitempty"`
	Sender      *EmailAddress `json:"sender,omitempty"`
	HTMLContent string        `json:"htmlContent,omitempty"`
	ListIDs     []int         `json:"listIds,omitempty"`
	ScheduledAt string        `json:"scheduledAt,omitempty"`
	Tag         string        `json:"tag,omitempty"`
}

// UpdateCampaignResult confirms a campaign update.
type UpdateCampaignResult struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// UpdateEmailCampaign patches the given fields of a draft campaign.
func (s *Service) UpdateEmailCampaign(ctx context.Context, campaignID int, req UpdateCampaignRequest) (*UpdateCampaignResult, error) {
	if campaignID <= 0 {
		return nil, validationErr("campaignId", "must be a positive integer")
	}

	payload := map[string]any{}
	if req.Name != "" {
		payload["name"] = req.Name
	}
	if req.Subject != "" {
		payload["subject"] = req.Subject
	}
	if req.Sender != nil {
		payload["sender"] = req.Sender
	}
	if req.HTMLContent != "" {
		payload["htmlContent"] = req.HTMLContent
	}
	if len(req.ListIDs) > 0 {
		payload["recipients"] = map[string]any{"listIds": req.ListIDs}
	}
	if req.ScheduledAt != "" {
		payload["scheduledAt"] = req.ScheduledAt
	}
	if req.Tag != "" {
		payload["tag"] = req.Tag
	}
	if len(payload) == 0 {
		return nil, validationErr("update", "at least one field to update is required")
	}

	endpoint := "/emailCampaigns/" + strconv.Itoa(campaignID)
	if err := s.client.Put(ctx, endpoint, payload, nil); err != nil {
		return nil, err
	}

	s.logger.Info("campaign updated", "id", campaignID)

	return &UpdateCampaignResult{
		ID:      campaignID,
		Message: fmt.Sprintf("Campaign %d updated successfully", campaignID),
	}, nil
}
