package service

import (
	"context"
	"net/url"
	"sync"

	"github.com/houtini-ai/brevo-mcp/internal/analytics"
)

// SummaryQuery are the arguments for GetAnalyticsSummary. Period
// defaults to the last seven days; custom periods require both dates.
type SummaryQuery struct {
	Period              string `json:"period"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	CompareWithPrevious bool   `json:"compareWithPrevious"`
}

// SummaryAccount is the account slice included in the summary.
type SummaryAccount struct {
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

// SummaryChanges holds percentage deltas against the immediately
// preceding window of the same length.
type SummaryChanges struct {
	CampaignCount float64 `json:"campaignCount"`
	TotalSent     float64 `json:"totalSent"`
	OpenRate      float64 `json:"openRate"`
	ClickRate     float64 `json:"clickRate"`
}

// AnalyticsSummary is the cross-cutting account report.
type AnalyticsSummary struct {
	Period       string                `json:"period"`
	Range        analytics.Range       `json:"range"`
	Account      SummaryAccount        `json:"account"`
	Metrics      analytics.Metrics     `json:"metrics"`
	TopCampaigns []CampaignPerformance `json:"topCampaigns"`
	Insights     []string              `json:"insights"`
	Changes      *SummaryChanges       `json:"changes,omitempty"`
	Timestamp    string                `json:"timestamp"`
}

func (s *Service) contactCount(ctx context.Context) (int, error) {
	params := url.Values{}
	params.Set("limit", "1")
	params.Set("offset", "0")

	var resp contactListResponse
	if err := s.client.Get(ctx, "/contacts", params, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// GetAnalyticsSummary aggregates account, contact and campaign metrics
// over a reporting window. The three upstream fetches run concurrently;
// the first error wins.
func (s *Service) GetAnalyticsSummary(ctx context.Context, q SummaryQuery) (*AnalyticsSummary, error) {
	window, err := analytics.ResolveRange(analytics.Period(q.Period), q.StartDate, q.EndDate, s.now())
	if err != nil {
		return nil, validationErr("period", err.Error())
	}

	var (
		wg       sync.WaitGroup
		account  *AccountInfo
		contacts int
		perf     *PerformanceReport
	)
	errCh := make(chan error, 3)

	wg.Add(3)
	go func() {
		defer wg.Done()
		info, err := s.GetAccountInfo(ctx)
		if err != nil {
			errCh <- err
			return
		}
		account = info
	}()
	go func() {
		defer wg.Done()
		n, err := s.contactCount(ctx)
		if err != nil {
			errCh <- err
			return
		}
		contacts = n
	}()
	go func() {
		defer wg.Done()
		report, err := s.GetCampaignsPerformance(ctx, PerformanceQuery{
			StartDate: window.Start,
			EndDate:   window.End,
		})
		if err != nil {
			errCh <- err
			return
		}
		perf = report
	}()
	wg.Wait()
	close(errCh)
	if err := <-errCh; err != nil {
		return nil, err
	}

	metrics := analytics.Metrics{
		Emails: &analytics.EmailMetrics{
			Sent:      perf.Totals.Sent,
			Delivered: perf.Totals.Delivered,
			OpenRate:  float64(perf.AggregateRate.OpenRate),
			ClickRate: float64(perf.AggregateRate.ClickRate),
		},
		Contacts: &analytics.ContactMetrics{
			Total:  contacts,
			Active: contacts,
		},
		Campaigns: &analytics.CampaignMetrics{
			Count:            len(perf.Campaigns),
			AverageClickRate: float64(perf.AggregateRate.ClickRate),
		},
	}

	summary := &AnalyticsSummary{
		Period:    string(resolvedPeriod(q.Period)),
		Range:     window,
		Account:   SummaryAccount{Email: account.Email, Plan: account.Plan},
		Metrics:   metrics,
		Insights:  analytics.GenerateInsights(metrics),
		Timestamp: s.timestamp(),
	}

	top := perf.TopPerformers
	if len(top) > 3 {
		top = top[:3]
	}
	summary.TopCampaigns = top

	if q.CompareWithPrevious {
		previous, err := window.Previous()
		if err != nil {
			return nil, err
		}
		prior, err := s.GetCampaignsPerformance(ctx, PerformanceQuery{
			StartDate: previous.Start,
			EndDate:   previous.End,
		})
		if err != nil {
			return nil, err
		}
		summary.Changes = &SummaryChanges{
			CampaignCount: analytics.PercentageChange(float64(len(perf.Campaigns)), float64(len(prior.Campaigns))),
			TotalSent:     analytics.PercentageChange(float64(perf.Totals.Sent), float64(prior.Totals.Sent)),
			OpenRate:      analytics.PercentageChange(float64(perf.AggregateRate.OpenRate), float64(prior.AggregateRate.OpenRate)),
			ClickRate:     analytics.PercentageChange(float64(perf.AggregateRate.ClickRate), float64(prior.AggregateRate.ClickRate)),
		}
	}

	return summary, nil
}

func resolvedPeriod(period string) analytics.Period {
	if period == "" {
		return analytics.PeriodLast7Days
	}
	return analytics.Period(period)
}
