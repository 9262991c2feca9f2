// Package analytics provides the derived-metric calculations shared by
// the domain services: rate sets, period comparisons, engagement
// classification, insight generation and date-range resolution. All
// functions are pure.
package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Percentage is a rate expressed in percent. It marshals to a quoted
// fixed-point string with two decimals ("30.00"), matching the wire
// format consumers of the tools expect.
type Percentage float64

// MarshalJSON implements json.Marshaler.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatFloat(float64(p), 'f', 2, 64))), nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both the quoted
// fixed-point form and a bare number.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid percentage %q: %w", s, err)
	}
	*p = Percentage(v)
	return nil
}

// Stats holds the raw per-campaign delivery counters the rates are
// derived from.
type Stats struct {
	Sent            int `json:"sent"`
	Delivered       int `json:"delivered"`
	UniqueOpens     int `json:"uniqueOpens"`
	UniqueClicks    int `json:"uniqueClicks"`
	HardBounces     int `json:"hardBounces"`
	SoftBounces     int `json:"softBounces"`
	Unsubscriptions int `json:"unsubscriptions"`
	Complaints      int `json:"complaints"`
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Sent += other.Sent
	s.Delivered += other.Delivered
	s.UniqueOpens += other.UniqueOpens
	s.UniqueClicks += other.UniqueClicks
	s.HardBounces += other.HardBounces
	s.SoftBounces += other.SoftBounces
	s.Unsubscriptions += other.Unsubscriptions
	s.Complaints += other.Complaints
}

// RateSet is the set of derived percentage metrics for a stats block.
// ClickToOpenRate is present only when there were unique opens.
type RateSet struct {
	OpenRate        Percentage  `json:"openRate"`
	ClickRate       Percentage  `json:"clickRate"`
	BounceRate      Percentage  `json:"bounceRate"`
	UnsubscribeRate Percentage  `json:"unsubscribeRate"`
	ClickToOpenRate *Percentage `json:"clickToOpenRate,omitempty"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rate computes num/den as a percentage rounded to two decimals,
// returning 0 for an empty denominator.
func rate(num, den int) Percentage {
	if den == 0 {
		return 0
	}
	return Percentage(round2(float64(num) / float64(den) * 100))
}

// CalculateRates derives a RateSet from raw counters. Every rate is 0
// when nothing was sent; there is never a division by zero.
func CalculateRates(s Stats) RateSet {
	if s.Sent == 0 {
		return RateSet{}
	}

	rs := RateSet{
		OpenRate:        rate(s.UniqueOpens, s.Sent),
		ClickRate:       rate(s.UniqueClicks, s.Sent),
		BounceRate:      rate(s.HardBounces+s.SoftBounces, s.Sent),
		UnsubscribeRate: rate(s.Unsubscriptions, s.Sent),
	}
	if s.UniqueOpens > 0 {
		cto := rate(s.UniqueClicks, s.UniqueOpens)
		rs.ClickToOpenRate = &cto
	}
	return rs
}

// PercentageChange computes the relative change from previous to
// current in percent, rounded to two decimals. A growth from zero is
// reported as 100; no change from zero as 0.
func PercentageChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2((current - previous) / previous * 100)
}

// EngagementLevel classifies interaction intensity.
type EngagementLevel string

const (
	HighlyEngaged     EngagementLevel = "Highly Engaged"
	Engaged           EngagementLevel = "Engaged"
	ModeratelyEngaged EngagementLevel = "Moderately Engaged"
	LowEngagement     EngagementLevel = "Low Engagement"
	NotEngaged        EngagementLevel = "Not Engaged"
	NoActivity        EngagementLevel = "No Activity"
)

// DetermineEngagement classifies a contact or audience by its open and
// click counts relative to the number of messages received. The ladder
// is evaluated in order: click thresholds dominate open thresholds.
func DetermineEngagement(opens, clicks, total int) EngagementLevel {
	if total == 0 {
		return NoActivity
	}
	openRate := float64(opens) / float64(total)
	clickRate := float64(clicks) / float64(total)

	switch {
	case clickRate > 0.10:
		return HighlyEngaged
	case clickRate > 0.05:
		return Engaged
	case openRate > 0.20:
		return ModeratelyEngaged
	case openRate > 0:
		return LowEngagement
	default:
		return NotEngaged
	}
}

// EmailMetrics is the email slice of an insight bundle.
type EmailMetrics struct {
	Sent      int     `json:"sent"`
	Delivered int     `json:"delivered"`
	OpenRate  float64 `json:"openRate"`
	ClickRate float64 `json:"clickRate"`
}

// ContactMetrics is the contact-list slice of an insight bundle.
type ContactMetrics struct {
	Total      int     `json:"total"`
	Active     int     `json:"active"`
	GrowthRate float64 `json:"growthRate"`
}

// CampaignMetrics is the campaign slice of an insight bundle.
type CampaignMetrics struct {
	Count            int     `json:"count"`
	AverageClickRate float64 `json:"averageClickRate"`
}

// Metrics bundles the inputs for insight generation. Nil slices are
// skipped.
type Metrics struct {
	Emails    *EmailMetrics    `json:"emails,omitempty"`
	Contacts  *ContactMetrics  `json:"contacts,omitempty"`
	Campaigns *CampaignMetrics `json:"campaigns,omitempty"`
}

// GenerateInsights produces human-readable observations from a metric
// bundle using fixed industry-benchmark thresholds.
func GenerateInsights(m Metrics) []string {
	var insights []string

	if e := m.Emails; e != nil {
		if e.OpenRate > 25 {
			insights = append(insights, "Strong email open rates indicate good subject lines and sender reputation")
		} else if e.OpenRate < 15 {
			insights = append(insights, "Low open rates suggest need for subject line optimization")
		}

		if e.ClickRate > 5 {
			insights = append(insights, "Excellent click-through rates show engaging content")
		} else if e.ClickRate < 2 {
			insights = append(insights, "Consider improving email content and CTAs for better engagement")
		}

		if e.Sent > 0 {
			deliveryRate := float64(e.Delivered) / float64(e.Sent) * 100
			if deliveryRate < 95 {
				insights = append(insights, "Delivery rate below 95% - review list hygiene and sender reputation")
			}
		}
	}

	if c := m.Contacts; c != nil {
		if c.GrowthRate > 10 {
			insights = append(insights, "Strong list growth - maintain engagement to prevent churn")
		} else if c.GrowthRate < 0 {
			insights = append(insights, "List shrinkage detected - review unsubscribe reasons and re-engagement strategies")
		}

		if c.Total > 0 {
			activeRate := float64(c.Active) / float64(c.Total) * 100
			if activeRate < 50 {
				insights = append(insights, "Low active contact rate - consider re-engagement campaigns")
			}
		}
	}

	if c := m.Campaigns; c != nil {
		if c.Count == 0 {
			insights = append(insights, "No campaigns found - start sending to engage your audience")
		} else if c.AverageClickRate < 2 {
			insights = append(insights, "Campaign performance below industry average - A/B test different approaches")
		}
	}

	if len(insights) == 0 {
		return []string{"Performance metrics within normal ranges"}
	}
	return insights
}

// Period names a relative reporting window.
type Period string

const (
	PeriodToday      Period = "today"
	PeriodYesterday  Period = "yesterday"
	PeriodLast7Days  Period = "last7days"
	PeriodLast30Days Period = "last30days"
	PeriodCustom     Period = "custom"
)

const dateLayout = "2006-01-02"

// Range is an inclusive date range in YYYY-MM-DD form.
type Range struct {
	Start string `json:"startDate"`
	End   string `json:"endDate"`
}

// ResolveRange turns a named period into a concrete date range relative
// to now. The custom period requires both explicit dates; an empty
// period defaults to last7days.
func ResolveRange(period Period, startDate, endDate string, now time.Time) (Range, error) {
	today := now.UTC().Truncate(24 * time.Hour)

	switch period {
	case PeriodToday:
		d := today.Format(dateLayout)
		return Range{Start: d, End: d}, nil
	case PeriodYesterday:
		d := today.AddDate(0, 0, -1).Format(dateLayout)
		return Range{Start: d, End: d}, nil
	case PeriodLast7Days, "":
		return Range{
			Start: today.AddDate(0, 0, -7).Format(dateLayout),
			End:   today.Format(dateLayout),
		}, nil
	case PeriodLast30Days:
		return Range{
			Start: today.AddDate(0, 0, -30).Format(dateLayout),
			End:   today.Format(dateLayout),
		}, nil
	case PeriodCustom:
		if startDate == "" || endDate == "" {
			return Range{}, fmt.Errorf("startDate and endDate are required for custom period")
		}
		if _, err := time.Parse(dateLayout, startDate); err != nil {
			return Range{}, fmt.Errorf("invalid startDate: %w", err)
		}
		if _, err := time.Parse(dateLayout, endDate); err != nil {
			return Range{}, fmt.Errorf("invalid endDate: %w", err)
		}
		return Range{Start: startDate, End: endDate}, nil
	default:
		return Range{}, fmt.Errorf("invalid period: %s", period)
	}
}

// Previous returns the immediately preceding period of the same length.
func (r Range) Previous() (Range, error) {
	start, err := time.Parse(dateLayout, r.Start)
	if err != nil {
		return Range{}, fmt.Errorf("invalid startDate: %w", err)
	}
	end, err := time.Parse(dateLayout, r.End)
	if err != nil {
		return Range{}, fmt.Errorf("invalid endDate: %w", err)
	}

	length := end.Sub(start)
	prevEnd := start.AddDate(0, 0, -1)
	prevStart := prevEnd.Add(-length)

	return Range{
		Start: prevStart.Format(dateLayout),
		End:   prevEnd.Format(dateLayout),
	}, nil
}
