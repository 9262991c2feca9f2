package service

import "context"

// accountResponse is the wire shape of GET /account.
type accountResponse struct {
	Email               string      `json:"email"`
	FirstName           string      `json:"firstName"`
	LastName            string      `json:"lastName"`
	CompanyName         string      `json:"companyName"`
	Plan                []planEntry `json:"plan"`
	Relay               featureFlag `json:"relay"`
	MarketingAutomation featureFlag `json:"marketingAutomation"`
}

type planEntry struct {
	Type        string   `json:"type"`
	Credits     float64  `json:"credits"`
	CreditsType string   `json:"creditsType"`
	Features    []string `json:"features"`
}

type featureFlag struct {
	Enabled bool `json:"enabled"`
}

// Credits splits the account credit balance by channel.
type Credits struct {
	EmailCredits float64 `json:"emailCredits"`
	SMSCredits   float64 `json:"smsCredits"`
}

// AccountInfo is the reduced account projection returned to callers.
type AccountInfo struct {
	Email               string   `json:"email"`
	FirstName           string   `json:"firstName"`
	LastName            string   `json:"lastName"`
	Company             string   `json:"company"`
	Plan                string   `json:"plan"`
	Credits             Credits  `json:"credits"`
	Features            []string `json:"features"`
	Relay               bool     `json:"relay"`
	MarketingAutomation bool     `json:"marketingAutomation"`
}

// GetAccountInfo fetches /account and projects it down to the fields
// callers care about.
func (s *Service) GetAccountInfo(ctx context.Context) (*AccountInfo, error) {
	var resp accountResponse
	if err := s.client.Get(ctx, "/account", nil, &resp); err != nil {
		return nil, err
	}

	info := &AccountInfo{
		Email:     resp.Email,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		Company:   resp.CompanyName,
		Plan:      "unknown",
		Features:  []string{},
	}
	if len(resp.Plan) > 0 {
		p := resp.Plan[0]
		if p.Type != "" {
			info.Plan = p.Type
		}
		info.Credits.EmailCredits = p.Credits
		if p.CreditsType == "sendLimit" {
			info.Credits.SMSCredits = p.Credits
		}
		if p.Features != nil {
			info.Features = p.Features
		}
	}
	info.Relay = resp.Relay.Enabled
	info.MarketingAutomation = resp.MarketingAutomation.Enabled

	return info, nil
}
